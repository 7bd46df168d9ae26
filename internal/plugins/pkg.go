package plugins

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/iancoleman/orderedmap"

	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/jsonfile"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

// Settings is the part of the config store Pkg reads.
type Settings interface {
	Get(key string) any
	GetBool(key string) bool
}

// Setting keys read by Pkg.
const (
	PkgOverridesKey = "pkg.overrides"
	PkgSortKey      = "pkg.sort"
	PkgNewlineKey   = "pkg.newline"
)

// DefaultNodeEngine is set when package.json declares no node engine.
const DefaultNodeEngine = ">=0.10.0"

// Pkg tidies package.json: normalized semver version, a single "license"
// string, shorthand GitHub repository, main listed in "files", a default
// test script and node engine, then configured overrides. The result is
// checked against the package.json schema and problems are logged.
func Pkg(settings Settings) pipeline.Stage {
	return pipeline.Map(func(ctx context.Context, rec *file.Record) error {
		if rec.Basename() != pkgmeta.FileName {
			return nil
		}
		logger := ctxlog.FromContext(ctx)

		o, err := jsonfile.Parse(rec.Contents)
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Relative(), err)
		}

		normalizeVersion(ctx, o)
		normalizeLicense(o)
		normalizeRepository(o)
		ensureMainInFiles(o)

		scripts := jsonfile.Object(o, "scripts")
		if _, ok := scripts.Get("test"); !ok {
			scripts.Set("test", "mocha")
		}
		o.Set("scripts", scripts)

		engines := jsonfile.Object(o, "engines")
		if v, ok := engines.Get("node"); ok {
			if s, _ := v.(string); s != "" {
				if _, err := semver.NewConstraint(s); err != nil {
					logger.Warn("invalid node engine constraint", "constraint", s, "error", err)
				}
			}
		} else {
			engines.Set("node", DefaultNodeEngine)
		}
		o.Set("engines", engines)

		if overrides, ok := settings.Get(PkgOverridesKey).(map[string]any); ok {
			keys := make([]string, 0, len(overrides))
			for k := range overrides {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				o.Set(k, overrides[k])
			}
		}

		out, err := jsonfile.Format(o, jsonfile.Options{
			Sort:    settings.GetBool(PkgSortKey),
			Newline: settings.GetBool(PkgNewlineKey),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Relative(), err)
		}

		result, err := pkgmeta.Validate(out)
		if err != nil {
			return fmt.Errorf("validating %s: %w", rec.Relative(), err)
		}
		for _, issue := range result.Issues {
			logger.Warn("package.json schema issue", "path", issue.Path, "keyword", issue.Keyword, "message", issue.Message)
		}
		rec.Data["issues"] = result.Issues

		rec.Contents = out
		return nil
	})
}

func normalizeVersion(ctx context.Context, o *orderedmap.OrderedMap) {
	v, ok := o.Get("version")
	if !ok {
		o.Set("version", "0.1.0")
		return
	}
	s, _ := v.(string)
	ver, err := semver.NewVersion(s)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("version is not semver, leaving it", "version", s, "error", err)
		return
	}
	o.Set("version", ver.String())
}

func normalizeLicense(o *orderedmap.OrderedMap) {
	if v, ok := o.Get("licenses"); ok {
		if _, has := o.Get("license"); !has {
			if list, ok := v.([]any); ok && len(list) > 0 {
				if first, ok := list[0].(orderedmap.OrderedMap); ok {
					if t, ok := first.Get("type"); ok {
						o.Set("license", t)
					}
				}
			}
		}
		o.Delete("licenses")
	}
	if v, ok := o.Get("license"); ok {
		if m, ok := v.(orderedmap.OrderedMap); ok {
			t, _ := m.Get("type")
			o.Set("license", t)
		}
		return
	}
	o.Set("license", "MIT")
}

func normalizeRepository(o *orderedmap.OrderedMap) {
	v, ok := o.Get("repository")
	if !ok {
		return
	}
	var ref string
	switch r := v.(type) {
	case string:
		ref = r
	case orderedmap.OrderedMap:
		u, _ := r.Get("url")
		ref, _ = u.(string)
	}
	const gh = "https://github.com/"
	if url := pkgmeta.RepoURL(ref); strings.HasPrefix(url, gh) {
		o.Set("repository", strings.TrimPrefix(url, gh))
	}
}

func ensureMainInFiles(o *orderedmap.OrderedMap) {
	mv, ok := o.Get("main")
	if !ok {
		return
	}
	main, _ := mv.(string)
	fv, ok := o.Get("files")
	if !ok || main == "" {
		return
	}
	files, ok := fv.([]any)
	if !ok {
		return
	}
	for _, f := range files {
		if f == main {
			return
		}
	}
	o.Set("files", append(files, main))
}
