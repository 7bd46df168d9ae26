package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/revamp-labs/revamp/internal/config"
	"github.com/revamp-labs/revamp/internal/lint"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project and environment",
	Long: `Validate package.json against the package schema, check that the user
settings file parses, and report whether the configured linter is installed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd(flagCwd)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fsys := afero.NewOsFs()

		failed := checkPackage(w, fsys, cwd)

		cfg := config.New()
		if err := cfg.LoadUserFile(); err != nil {
			fmt.Fprintf(w, "[FAIL] %v\n", err)
			failed = true
		} else {
			fmt.Fprintf(w, "[ OK ] settings %s\n", config.FilePath())
		}

		store, err := loadStore(fsys, cwd, map[string]any{})
		if err != nil {
			return err
		}
		checkLinter(w, cwd, store.GetString("lint.tool"))

		if failed {
			return errors.New("doctor found problems")
		}
		return nil
	},
}

func checkPackage(w io.Writer, fsys afero.Fs, cwd string) bool {
	path := filepath.Join(cwd, pkgmeta.FileName)
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "[MISS] %s not found\n", pkgmeta.FileName)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "[FAIL] reading %s: %v\n", pkgmeta.FileName, err)
		return true
	}

	result, err := pkgmeta.Validate(data)
	if err != nil {
		fmt.Fprintf(w, "[FAIL] %s: %v\n", pkgmeta.FileName, err)
		return true
	}
	if !result.Valid {
		fmt.Fprintf(w, "[WARN] %s has %d schema issue(s)\n", pkgmeta.FileName, len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "       %s\n", issue)
		}
		return false
	}
	fmt.Fprintf(w, "[ OK ] %s is valid\n", pkgmeta.FileName)
	return false
}

func checkLinter(w io.Writer, cwd, tool string) {
	cmd, ok := lint.Dispatch(tool).(*lint.Command)
	if !ok {
		fmt.Fprintf(w, "[WARN] unknown linter %q\n", tool)
		return
	}
	path, err := cmd.Path(cwd)
	if err != nil {
		fmt.Fprintf(w, "[MISS] %s not found\n", tool)
		return
	}
	fmt.Fprintf(w, "[ OK ] %s found at %s\n", tool, path)
}
