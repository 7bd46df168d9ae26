package fsys

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

// Source enumerates files below Cwd matching glob patterns.
type Source struct {
	Fs  afero.Fs
	Cwd string
}

var _ pipeline.Source = (*Source)(nil)

// Enumerate matches patterns relative to Cwd and yields one record per
// matched file, in pattern order and then lexical order, each file at most
// once. Patterns starting with "!" exclude matches. File contents are read
// as the sequence is consumed; a match removed before it is reached (by a
// hook or an earlier record's write) is skipped.
func (s *Source) Enumerate(ctx context.Context, patterns []string, opts pipeline.SrcOptions) iter.Seq2[*file.Record, error] {
	return func(yield func(*file.Record, error) bool) {
		matches, err := s.Match(patterns, opts.Dot)
		if err != nil {
			yield(nil, err)
			return
		}

		for _, rel := range matches {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			abs := filepath.Join(s.Cwd, filepath.FromSlash(rel))
			rec, err := s.load(abs)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				yield(nil, err)
				return
			}
			rec.Render = opts.RenderEnabled()

			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (s *Source) load(abs string) (*file.Record, error) {
	info, err := s.Fs.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	data, err := afero.ReadFile(s.Fs, abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", abs, err)
	}
	rec := file.New(abs, s.Cwd, data)
	rec.Mode = info.Mode().Perm()
	return rec, nil
}

// Match returns the slash-separated paths, relative to Cwd, of the files
// matching patterns.
func (s *Source) Match(patterns []string, dot bool) ([]string, error) {
	root := afero.NewIOFS(afero.NewBasePathFs(s.Fs, s.Cwd))

	var (
		result   []string
		seen     = make(map[string]bool)
		excludes []string
	)

	for _, raw := range patterns {
		pattern := normalizePattern(raw)
		if strings.HasPrefix(pattern, "!") {
			excludes = append(excludes, strings.TrimPrefix(pattern, "!"))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", raw)
		}

		matches, err := doublestar.Glob(root, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", raw, err)
		}
		sort.Strings(matches)

		for _, m := range matches {
			if seen[m] || (!dot && hiddenByPattern(pattern, m)) {
				continue
			}
			seen[m] = true
			result = append(result, m)
		}
	}

	if len(excludes) == 0 {
		return result, nil
	}
	return slices.DeleteFunc(result, func(m string) bool {
		for _, ex := range excludes {
			if ok, _ := doublestar.Match(ex, m); ok {
				return true
			}
		}
		return false
	}), nil
}

func normalizePattern(p string) string {
	p = filepath.ToSlash(p)
	neg := strings.HasPrefix(p, "!")
	p = strings.TrimPrefix(p, "!")
	p = strings.TrimPrefix(p, "./")
	if neg {
		return "!" + p
	}
	return p
}

// hiddenByPattern reports whether match contains a dot-segment that the
// corresponding pattern segment does not name explicitly. Segments after a
// "**" are aligned from the end of the path; the ones the globstar itself
// absorbs never count as explicit.
func hiddenByPattern(pattern, match string) bool {
	pSegs := strings.Split(pattern, "/")
	mSegs := strings.Split(match, "/")
	star := slices.Index(pSegs, "**")

	for i, seg := range mSegs {
		if !strings.HasPrefix(seg, ".") {
			continue
		}
		var p string
		switch {
		case star < 0 || i < star:
			if i < len(pSegs) {
				p = pSegs[i]
			}
		default:
			j := len(pSegs) - (len(mSegs) - i)
			if j > star {
				p = pSegs[j]
			}
		}
		if !strings.HasPrefix(p, ".") && !strings.HasPrefix(p, "{.") {
			return true
		}
	}
	return false
}
