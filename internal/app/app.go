package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/config"
	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/fsys"
	"github.com/revamp-labs/revamp/internal/hooks"
	"github.com/revamp-labs/revamp/internal/jsonfile"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
	"github.com/revamp-labs/revamp/internal/render"
	"github.com/revamp-labs/revamp/internal/report"
	"github.com/revamp-labs/revamp/internal/task"
)

// Options configures New. Zero values get working defaults: the process
// working directory, the OS file system, an empty store, no progress output
// and slog.Default().
type Options struct {
	Cwd    string
	Fs     afero.Fs
	Config *config.Store
	Out    io.Writer
	Logger *slog.Logger
}

// App wires tasks, hooks, configuration and file system access for a run.
type App struct {
	cwd    string
	fs     afero.Fs
	cfg    *config.Store
	graph  *task.Graph
	hooks  *hooks.Registry
	src    *fsys.Source
	dst    *fsys.Destination
	rep    *report.Reporter
	logger *slog.Logger
	runID  string
}

// New builds an App and registers the default hooks: front matter parsing
// on load for .md and .tmpl files, and template rendering before write for
// records with Render set.
func New(opts Options) (*App, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cwd = wd
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Cwd, err)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()

	a := &App{
		cwd:    cwd,
		fs:     fs,
		cfg:    cfg,
		graph:  task.NewGraph(),
		hooks:  hooks.NewRegistry(),
		src:    &fsys.Source{Fs: fs, Cwd: cwd},
		dst:    &fsys.Destination{Fs: fs, Cwd: cwd},
		rep:    report.New(opts.Out),
		logger: logger.With("run", runID),
		runID:  runID,
	}

	a.graph.OnTask(func(name string, phase task.Phase, elapsed time.Duration, err error) {
		if phase == task.PhaseFinish {
			a.rep.Task(name, elapsed, err)
		}
	})

	if err := a.OnLoad("*.{md,tmpl}", func(_ context.Context, rec *file.Record) error {
		return render.ParseFrontMatter(rec)
	}); err != nil {
		return nil, err
	}
	if err := a.On(hooks.PreWrite, hooks.Any(), func(_ context.Context, rec *file.Record) error {
		if !rec.Render {
			return nil
		}
		return render.Render(rec, a.cfg.AllSettings())
	}); err != nil {
		return nil, err
	}
	return a, nil
}

// Task registers a named task. deps run before body, in order.
func (a *App) Task(name string, deps []string, body task.Body) error {
	return a.graph.Register(name, deps, body)
}

// On registers a hook handler.
func (a *App) On(stage hooks.Stage, m hooks.Matcher, h hooks.Handler) error {
	return a.hooks.On(stage, m, h)
}

// OnLoad registers an onLoad handler for pattern. See Matcher for the
// pattern syntax.
func (a *App) OnLoad(pattern string, h hooks.Handler) error {
	return a.onPattern(hooks.OnLoad, pattern, h)
}

// OnStream registers an onStream handler for pattern.
func (a *App) OnStream(pattern string, h hooks.Handler) error {
	return a.onPattern(hooks.OnStream, pattern, h)
}

// PreWrite registers a preWrite handler for pattern.
func (a *App) PreWrite(pattern string, h hooks.Handler) error {
	return a.onPattern(hooks.PreWrite, pattern, h)
}

// PostWrite registers a postWrite handler for pattern.
func (a *App) PostWrite(pattern string, h hooks.Handler) error {
	return a.onPattern(hooks.PostWrite, pattern, h)
}

func (a *App) onPattern(stage hooks.Stage, pattern string, h hooks.Handler) error {
	m, err := Matcher(pattern)
	if err != nil {
		return err
	}
	return a.hooks.On(stage, m, h)
}

// Matcher parses a hook pattern: "*" matches everything, "/expr/" is a
// regular expression, anything else a glob.
func Matcher(pattern string) (hooks.Matcher, error) {
	switch {
	case pattern == "*":
		return hooks.Any(), nil
	case len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/"):
		return hooks.Regexp(pattern[1 : len(pattern)-1])
	default:
		return hooks.Glob(pattern)
	}
}

// Src starts a pipeline reading patterns relative to the working directory.
func (a *App) Src(patterns []string, opts pipeline.SrcOptions) *pipeline.Pipeline {
	return pipeline.New(a.src, a.dst, a.hooks, patterns, opts)
}

// Copy writes the files matching patterns to target verbatim: no stages,
// no hooks, no rendering.
func (a *App) Copy(ctx context.Context, patterns []string, target pipeline.Target) error {
	return pipeline.New(a.src, a.dst, nil, patterns, pipeline.NoRender()).
		Dest(target).
		Run(a.context(ctx))
}

// Run executes the named task and everything it depends on.
func (a *App) Run(ctx context.Context, name string) error {
	if name == "" {
		name = task.DefaultTask
	}
	return a.graph.Run(a.context(ctx), name)
}

func (a *App) context(ctx context.Context) context.Context {
	if ctxlog.FromContext(ctx) != slog.Default() {
		return ctx
	}
	return ctxlog.WithLogger(ctx, a.logger)
}

// Flag returns a command-line flag (argv.<key>) from the store.
func (a *App) Flag(key string) any {
	return a.cfg.Get("argv." + key)
}

// Resolve joins paths onto the working directory.
func (a *App) Resolve(paths ...string) string {
	return filepath.Join(append([]string{a.cwd}, paths...)...)
}

// Exists reports whether a path relative to the working directory exists.
func (a *App) Exists(rel string) bool {
	ok, err := afero.Exists(a.fs, a.Resolve(rel))
	return err == nil && ok
}

// Package returns the typed package metadata from the merged store, so
// command-line values override package.json.
func (a *App) Package() pkgmeta.Info {
	return pkgmeta.ParseInfo(a.cfg.AllSettings())
}

// ExtendOptions controls ExtendFile serialization.
type ExtendOptions struct {
	Sort    bool
	Newline bool
}

// ExtendFile shallow-merges overrides into a JSON record, keeping the
// existing key order.
func ExtendFile(rec *file.Record, overrides map[string]any, opts ExtendOptions) error {
	out, err := jsonfile.Extend(rec.Contents, overrides, jsonfile.Options{Sort: opts.Sort, Newline: opts.Newline})
	if err != nil {
		return fmt.Errorf("extending %s: %w", rec.Relative(), err)
	}
	rec.Contents = out
	return nil
}

func (a *App) Config() *config.Store    { return a.cfg }
func (a *App) Fs() afero.Fs             { return a.fs }
func (a *App) Cwd() string              { return a.cwd }
func (a *App) Report() *report.Reporter { return a.rep }
func (a *App) Tasks() *task.Graph       { return a.graph }
func (a *App) Logger() *slog.Logger     { return a.logger }
func (a *App) RunID() string            { return a.runID }
