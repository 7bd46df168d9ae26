package file

import (
	"io/fs"
	"maps"
	"path/filepath"
	"strings"
)

// Record is one file moving through a pipeline.
//
// The relative path is never stored: it is derived from Path and Base on
// every call, so it cannot drift from them.
type Record struct {
	path string
	base string

	// Contents is the raw payload. Any stage may replace it.
	Contents []byte

	// Data holds metadata attached by stages and hooks (front matter,
	// parsed copyright, ...).
	Data map[string]any

	// Mode is the permission set observed when the record was enumerated.
	Mode fs.FileMode

	// Render enables template expansion before the record is written.
	Render bool

	// Skip suppresses every later stage and the write.
	Skip bool
}

// New creates a record for path under base. A relative path is resolved
// against base.
func New(path, base string, contents []byte) *Record {
	r := &Record{
		base:     filepath.Clean(base),
		Contents: contents,
		Data:     make(map[string]any),
		Mode:     0o644,
		Render:   true,
	}
	r.SetPath(path)
	return r
}

// Path returns the absolute (base-resolved) path of the record.
func (r *Record) Path() string { return r.path }

// SetPath points the record at p. Relative values are joined to Base.
func (r *Record) SetPath(p string) {
	if p == "" {
		return
	}
	if !filepath.IsAbs(p) && r.base != "" {
		p = filepath.Join(r.base, p)
	}
	r.path = filepath.Clean(p)
}

// Base returns the directory the relative path is computed from.
func (r *Record) Base() string { return r.base }

// SetBase changes the base directory. Path is left untouched.
func (r *Record) SetBase(b string) { r.base = filepath.Clean(b) }

// Relative returns Path relative to Base using forward slashes. If Path is
// not below Base the cleaned path is returned as is.
func (r *Record) Relative() string {
	rel, err := filepath.Rel(r.base, r.path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(r.path)
	}
	return filepath.ToSlash(rel)
}

// Dirname returns the directory of Path.
func (r *Record) Dirname() string { return filepath.Dir(r.path) }

// Basename returns the last element of Path.
func (r *Record) Basename() string { return filepath.Base(r.path) }

// Ext returns the file extension of Path, including the dot.
func (r *Record) Ext() string { return filepath.Ext(r.path) }

// Content returns Contents as a string.
func (r *Record) Content() string { return string(r.Contents) }

// SetContent replaces Contents with s.
func (r *Record) SetContent(s string) { r.Contents = []byte(s) }

// Clone returns a deep copy of r. Data values are copied shallowly.
func (r *Record) Clone() *Record {
	c := *r
	c.Contents = append([]byte(nil), r.Contents...)
	c.Data = maps.Clone(r.Data)
	if c.Data == nil {
		c.Data = make(map[string]any)
	}
	return &c
}

func (r *Record) String() string {
	return "<Record " + r.Relative() + ">"
}
