package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/revamp-labs/revamp/internal/branding"
	"github.com/revamp-labs/revamp/internal/scaffold"
)

var (
	initDescription string
	initAuthor      string
)

func init() {
	initCmd.Flags().StringVar(&initDescription, "description", "", "Package description")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Package author, e.g. \"Jane Doe <jane@example.com>\"")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new package in the project directory",
	Long: `Create package.json, index.js, test.js, .verb.md and .gitignore for a new
package. The name defaults to the directory name. Existing files other than
package.json are left untouched; run "` + branding.CLIName() + `" afterwards to bring
the package up to date.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd(flagCwd)
		if err != nil {
			return err
		}
		cwd, err = filepath.Abs(cwd)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", cwd, err)
		}

		name := filepath.Base(cwd)
		if len(args) == 1 {
			name = args[0]
		}

		result, err := scaffold.Generate(afero.NewOsFs(), "node", scaffold.NewData(name, initDescription, initAuthor), cwd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, f := range result.Files {
			fmt.Fprintf(w, "  created %s\n", f)
		}
		for _, f := range result.Skipped {
			fmt.Fprintf(w, "  skipped %s (exists)\n", f)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warning)
		}
		fmt.Fprintf(w, "\nInitialized %s in %s\n", name, result.OutputDir)
		return nil
	},
}
