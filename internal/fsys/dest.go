package fsys

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/platform"
)

// Destination writes records below a directory resolved against Cwd.
type Destination struct {
	Fs  afero.Fs
	Cwd string
}

var _ pipeline.Destination = (*Destination)(nil)

// Write stores rec at dir/<relative path>, creating parent directories and
// preserving the record's permission bits. An existing file is replaced.
// On success the record points at the written file, with dir as its base.
func (d *Destination) Write(_ context.Context, rec *file.Record, dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(d.Cwd, dir)
	}

	rel := filepath.FromSlash(rec.Relative())
	if filepath.IsAbs(rel) {
		rel = rec.Basename()
	}
	out := filepath.Join(dir, rel)
	mode := platform.PermOrDefault(rec.Mode, 0o644)

	if err := d.Fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return &pipeline.WriteError{Path: out, Err: err}
	}
	if err := afero.WriteFile(d.Fs, out, rec.Contents, mode); err != nil {
		return &pipeline.WriteError{Path: out, Err: err}
	}
	if err := platform.Chmod(d.Fs, out, mode); err != nil {
		return &pipeline.WriteError{Path: out, Err: err}
	}

	rec.SetBase(dir)
	rec.SetPath(out)
	return nil
}
