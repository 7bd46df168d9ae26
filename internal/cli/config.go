package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/revamp-labs/revamp/internal/branding"
	"github.com/revamp-labs/revamp/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read the merged configuration or write user settings stored at ~/` +
		branding.HomeDir() + `/config.yaml.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a user setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SaveUserSetting(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a value from the merged configuration",
	Long: `Get a value after merging defaults, user settings, environment
variables and the project's package.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd(flagCwd)
		if err != nil {
			return err
		}
		cfg, err := loadStore(afero.NewOsFs(), cwd, map[string]any{})
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), cfg.Get(args[0]))
	},
}

// printValue prints scalars as-is and maps or lists as YAML.
func printValue(w io.Writer, value any) error {
	switch value.(type) {
	case nil:
		return nil
	case map[string]any, []any:
		out, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshaling value: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		_, err := fmt.Fprintln(w, value)
		return err
	}
}
