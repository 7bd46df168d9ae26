package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/revamp-labs/revamp/internal/app"
	"github.com/revamp-labs/revamp/internal/branding"
	"github.com/revamp-labs/revamp/internal/config"
	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
	"github.com/revamp-labs/revamp/internal/recipe"
	"github.com/revamp-labs/revamp/internal/task"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagCwd      string
	flagVerbose  bool
	flagLogLevel string
)

// rawArgs is what the root command hands to config.ParseArgs. Cobra drops
// unknown flags, so the task runner works from the original argument list.
var rawArgs []string

// boolFlags never consume the following argument as their value.
var boolFlags = []string{"verbose", "v", "help", "h"}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCwd, "cwd", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [task]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` upgrades an existing Node.js package to current conventions.

Without arguments it runs the "default" task. Any extra --key=value flags are
merged into the configuration and are visible to templates and plugins
(for example --gitignore=coverage or --pkg.sort).

Report problems at ` + branding.IssuesURL() + `.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd.Context(), runOptions{
			Args:   rawArgs,
			Cwd:    flagCwd,
			Level:  logLevel(),
			Out:    cmd.OutOrStdout(),
			ErrOut: cmd.ErrOrStderr(),
		})
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rawArgs = os.Args[1:]

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", branding.CLIName(), err)
	}
	return err
}

type runOptions struct {
	Args   []string
	Cwd    string
	Level  slog.Level
	Out    io.Writer
	ErrOut io.Writer
}

// runTask builds the app for the project and runs the task named by the
// first positional argument.
func runTask(ctx context.Context, opts runOptions) error {
	argv := parseArgv(opts.Args)
	logger := ctxlog.New(opts.ErrOut, opts.Level)

	a, err := newApp(opts.Cwd, argv, opts.Out, logger)
	if err != nil {
		return err
	}

	name := task.DefaultTask
	if pos, ok := argv["_"].([]any); ok && len(pos) > 0 {
		name = fmt.Sprint(pos[0])
	}
	a.Logger().Debug("running task", "task", name, "cwd", a.Cwd())
	return a.Run(ctx, name)
}

// parseArgv parses raw arguments. Dotted keys are only expanded into nested
// maps when more than one argument was given.
func parseArgv(raw []string) map[string]any {
	argv := config.ParseArgs(raw, boolFlags...)
	if len(raw) > 1 {
		argv = config.Expand(argv)
	}
	return argv
}

// loadStore merges defaults, user settings, package.json and argv.
func loadStore(fsys afero.Fs, cwd string, argv map[string]any) (*config.Store, error) {
	cfg := config.New()
	cfg.SetDefaults(recipe.Defaults())
	if err := cfg.LoadUserFile(); err != nil {
		return nil, err
	}
	pkg, err := pkgmeta.Load(fsys, cwd)
	if err != nil {
		return nil, err
	}
	if err := cfg.MergePackage(pkg); err != nil {
		return nil, err
	}
	cfg.ApplyArgv(argv)
	return cfg, nil
}

// newApp returns an app with the built-in recipe registered.
func newApp(cwd string, argv map[string]any, out io.Writer, logger *slog.Logger) (*app.App, error) {
	fsys := afero.NewOsFs()
	cwd, err := resolveCwd(cwd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadStore(fsys, cwd, argv)
	if err != nil {
		return nil, err
	}

	a, err := app.New(app.Options{
		Cwd:    cwd,
		Fs:     fsys,
		Config: cfg,
		Out:    out,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if err := recipe.Register(a); err != nil {
		return nil, fmt.Errorf("registering recipe: %w", err)
	}
	return a, nil
}

func resolveCwd(cwd string) (string, error) {
	if cwd != "" {
		return cwd, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return wd, nil
}

func logLevel() slog.Level {
	if flagVerbose {
		return slog.LevelDebug
	}
	return ctxlog.ParseLevel(flagLogLevel)
}
