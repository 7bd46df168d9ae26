package recipe

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/revamp-labs/revamp/internal/app"
	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/fsys"
	"github.com/revamp-labs/revamp/internal/hooks"
	"github.com/revamp-labs/revamp/internal/lint"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/plugins"
	"github.com/revamp-labs/revamp/internal/task"
)

// DefaultTasks is the schedule of the default task.
var DefaultTasks = []string{
	"migrate",
	"banners",
	"tests",
	"verbfile",
	"dotfiles",
	"travis",
	"jshint",
	"license",
	"pkg",
	"readme",
}

// Files removed by the dotfiles task once they have been migrated.
var obsoleteFiles = []string{".npmignore", "test/mocha.opts", ".verbrc.md", "LICENSE-MIT"}

// Defaults returns the built-in configuration layer read by the recipe.
func Defaults() map[string]any {
	return map[string]any{
		"lint": map[string]any{
			"tool":   lint.ToolJSHint,
			"strict": false,
		},
		"pkg": map[string]any{
			"sort":    false,
			"newline": false,
		},
		"gitignore": []string{},
	}
}

type recipe struct {
	a *app.App
}

// Register installs the recipe's hooks and tasks on a.
func Register(a *app.App) error {
	r := &recipe{a: a}

	if err := r.registerHooks(); err != nil {
		return err
	}

	tasks := []struct {
		name string
		body task.Body
	}{
		{"migrate", r.migrate},
		{"banners", r.banners},
		{"tests", r.tests},
		{"verbfile", r.verbfile},
		{"dotfiles", r.dotfiles},
		{"travis", r.travis},
		{"jshint", r.jshint},
		{"lint", r.lint},
		{"license", r.license},
		{"pkg", r.pkg},
		{"readme", r.readme},
	}
	for _, t := range tasks {
		if err := a.Task(t.name, nil, t.body); err != nil {
			return err
		}
	}
	return a.Task(task.DefaultTask, DefaultTasks, nil)
}

func (r *recipe) registerHooks() error {
	statsDone := false
	if err := r.a.On(hooks.OnLoad, hooks.Any(), func(context.Context, *file.Record) error {
		if statsDone {
			return nil
		}
		statsDone = true
		r.collectStats()
		return nil
	}); err != nil {
		return err
	}

	if err := r.a.OnLoad("*.js", func(_ context.Context, rec *file.Record) error {
		rec.Data["copyright"] = plugins.ParseCopyright(rec.Content())
		return nil
	}); err != nil {
		return err
	}

	return r.a.PostWrite("LICENSE", func(context.Context, *file.Record) error {
		if !r.a.Exists("LICENSE-MIT") {
			return nil
		}
		if err := fsys.Remove(r.a.Fs(), r.a.Cwd(), []string{"LICENSE-MIT"}); err != nil {
			return err
		}
		r.a.Report().Info("deleted", "LICENSE-MIT")
		return nil
	})
}

// collectStats records the root entries (plus test/ entries) and whether
// the project uses Travis.
func (r *recipe) collectStats() {
	files := fsys.ReadDirNames(r.a.Fs(), r.a.Cwd())
	if slices.Contains(files, "test") {
		files = append(files, fsys.ReadDirNames(r.a.Fs(), r.a.Resolve("test"))...)
	}
	r.a.Config().Set("stats", map[string]any{
		"files":     files,
		"hasTravis": r.a.Exists(".travis.yml"),
	})
}

// rename returns a target that renames records to name in the working
// directory.
func rename(name string) pipeline.Target {
	return pipeline.TargetFunc(func(rec *file.Record) (string, error) {
		rec.SetPath(name)
		return ".", nil
	})
}

var here = pipeline.Dir(".")

func (r *recipe) migrate(ctx context.Context) error {
	rep := r.a.Report()

	if r.a.Exists(".verbrc.md") {
		if err := r.a.Copy(ctx, []string{".verbrc.md"}, rename(".verb.md")); err != nil {
			return err
		}
		rep.Success("renamed", ".verb.md")
	}

	if r.singleTest() {
		r.a.Config().Set("singleTest", true)
		if err := r.a.Copy(ctx, []string{"test/test.js"}, rename("test.js")); err != nil {
			return err
		}
		rep.Success("moved", "test.js")
	}

	if r.a.Exists("LICENSE-MIT") {
		if err := r.a.Copy(ctx, []string{"LICENSE-MIT"}, rename("LICENSE")); err != nil {
			return err
		}
		rep.Success("renamed", "LICENSE")
	}
	return nil
}

// singleTest reports whether test/ holds test.js and no subdirectories.
func (r *recipe) singleTest() bool {
	if !r.a.Exists(filepath.Join("test", "test.js")) {
		return false
	}
	for _, name := range fsys.ReadDirNames(r.a.Fs(), r.a.Resolve("test")) {
		if ok, _ := isDir(r.a, filepath.Join("test", name)); ok {
			return false
		}
	}
	return true
}

func isDir(a *app.App, rel string) (bool, error) {
	info, err := a.Fs().Stat(a.Resolve(rel))
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (r *recipe) banners(ctx context.Context) error {
	return r.a.Src([]string{"*.js", "test/*.js", "lib/*.js"}, pipeline.NoRender()).
		Pipe(pipeline.Filter(notMinified)).
		Pipe(plugins.Banners(r.a.Package())).
		Dest(here).
		Run(ctx)
}

// notMinified keeps build output such as dist.min.js out of the banners
// task.
func notMinified(rec *file.Record) bool {
	return !strings.HasSuffix(rec.Basename(), ".min.js")
}

func (r *recipe) tests(ctx context.Context) error {
	return r.a.Src([]string{"test.js", "test/*.js"}, pipeline.NoRender()).
		Pipe(plugins.Tests()).
		Dest(here).
		Run(ctx)
}

func (r *recipe) verbfile(ctx context.Context) error {
	return r.a.Src([]string{".verb{,rc}.md"}, pipeline.NoRender()).
		Pipe(pipeline.StageFunc(func(ctx context.Context, rec *file.Record, emit pipeline.Emit) error {
			// stats are collected by the first onLoad of the run
			stats := plugins.StatsFrom(r.a.Config().Get("stats"))
			return plugins.VerbMD(r.a.Package(), stats).Transform(ctx, rec, emit)
		})).
		Dest(rename(".verb.md")).
		OnEnd(func(context.Context) error {
			r.a.Report().Success("updated", ".verb.md")
			return nil
		}).
		Run(ctx)
}

func (r *recipe) dotfiles(ctx context.Context) error {
	cfg := r.a.Config()
	opts := pipeline.NoRender()
	opts.Dot = true
	return r.a.Src([]string{".git*"}, opts).
		Pipe(plugins.EditorConfig(r.a.Cwd(), r.a.Exists)).
		Pipe(plugins.GitIgnore(cfg.GetStringSlice("gitignore")...)).
		Dest(here).
		OnEnd(func(context.Context) error {
			exists, _ := fsys.Exists(r.a.Fs(), r.a.Cwd(), obsoleteFiles)
			if cfg.GetBool("singleTest") {
				exists = append(exists, "test")
			}
			if len(exists) == 0 {
				return nil
			}
			if err := fsys.Remove(r.a.Fs(), r.a.Cwd(), exists); err != nil {
				return err
			}
			r.a.Report().Info("deleted", strings.Join(exists, ", "))
			return nil
		}).
		Run(ctx)
}

func (r *recipe) travis(ctx context.Context) error {
	return r.a.Src([]string{".travis.yml"}, pipeline.NoRender()).
		Pipe(plugins.Travis()).
		Dest(rename(".travis.yml")).
		Run(ctx)
}

func (r *recipe) jshint(ctx context.Context) error {
	return r.a.Src([]string{".jshintrc"}, pipeline.NoRender()).
		Pipe(plugins.JSHintRC()).
		Dest(rename(".jshintrc")).
		Run(ctx)
}

func (r *recipe) lint(ctx context.Context) error {
	cfg := r.a.Config()
	return r.a.Src([]string{"*.js", "lib/**/*.js", "test/**/*.js"}, pipeline.NoRender()).
		Pipe(plugins.Lint(lint.Dispatch(cfg.GetString("lint.tool")), r.a.Report(), cfg.GetBool("lint.strict"))).
		Run(ctx)
}

func (r *recipe) license(ctx context.Context) error {
	return r.a.Src([]string{"LICENSE{,-MIT}"}, pipeline.NoRender()).
		Pipe(plugins.License(r.a.Package())).
		Dest(rename("LICENSE")).
		Run(ctx)
}

func (r *recipe) pkg(ctx context.Context) error {
	return r.a.Src([]string{"package.json"}, pipeline.NoRender()).
		Pipe(plugins.Pkg(r.a.Config())).
		Dest(here).
		OnEnd(func(context.Context) error {
			r.a.Report().Success("updated", "package.json")
			return nil
		}).
		Run(ctx)
}

func (r *recipe) readme(ctx context.Context) error {
	return r.a.Src([]string{".verb.md"}, pipeline.SrcOptions{}).
		Dest(rename("README.md")).
		OnEnd(func(context.Context) error {
			r.a.Report().Success("updated", "README.md")
			return nil
		}).
		Run(ctx)
}
