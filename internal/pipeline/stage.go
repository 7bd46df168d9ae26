package pipeline

import (
	"context"
	"iter"

	"github.com/revamp-labs/revamp/internal/file"
)

// Emit forwards a record to the next stage. It returns once the record has
// been fully handled downstream.
type Emit func(rec *file.Record) error

// Stage is one transform step. Transform must either emit the record (or
// replacements for it) or deliberately drop it, and returns when done.
type Stage interface {
	Transform(ctx context.Context, rec *file.Record, emit Emit) error
}

// Flusher is implemented by stages that need a final call after the last
// record, for example to emit records accumulated along the way.
type Flusher interface {
	Flush(ctx context.Context, emit Emit) error
}

// StageFunc adapts a function into a Stage.
type StageFunc func(ctx context.Context, rec *file.Record, emit Emit) error

func (f StageFunc) Transform(ctx context.Context, rec *file.Record, emit Emit) error {
	return f(ctx, rec, emit)
}

// Map returns a 1:1 stage that mutates each record and forwards it.
func Map(fn func(ctx context.Context, rec *file.Record) error) Stage {
	return StageFunc(func(ctx context.Context, rec *file.Record, emit Emit) error {
		if err := fn(ctx, rec); err != nil {
			return err
		}
		return emit(rec)
	})
}

// Filter returns a stage that forwards only records keep accepts.
func Filter(keep func(rec *file.Record) bool) Stage {
	return StageFunc(func(_ context.Context, rec *file.Record, emit Emit) error {
		if !keep(rec) {
			return nil
		}
		return emit(rec)
	})
}

// SrcOptions controls enumeration.
type SrcOptions struct {
	// Render, when set to false, marks records as non-template content.
	Render *bool
	// Dot includes dotfiles matched by wildcards.
	Dot bool
}

// NoRender is shorthand for SrcOptions{Render: &false}.
func NoRender() SrcOptions {
	f := false
	return SrcOptions{Render: &f}
}

// RenderEnabled reports the effective render flag (default true).
func (o SrcOptions) RenderEnabled() bool {
	return o.Render == nil || *o.Render
}

// Source enumerates records for a set of patterns. The sequence is lazy,
// single pass and yields records in a stable order. A non-nil error ends
// the sequence.
type Source interface {
	Enumerate(ctx context.Context, patterns []string, opts SrcOptions) iter.Seq2[*file.Record, error]
}

// Destination writes a record below dir.
type Destination interface {
	Write(ctx context.Context, rec *file.Record, dir string) error
}

// Target decides the output directory for a record.
type Target interface {
	Dir(rec *file.Record) (string, error)
}

// Dir is a fixed output directory.
type Dir string

func (d Dir) Dir(*file.Record) (string, error) { return string(d), nil }

// TargetFunc computes the output directory per record. It may also rename
// the record before it is written.
type TargetFunc func(rec *file.Record) (string, error)

func (f TargetFunc) Dir(rec *file.Record) (string, error) { return f(rec) }
