package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/hooks"
)

// Pipeline is one source → stages → destination run. Build it with New and
// the chaining methods, then call Run once.
type Pipeline struct {
	src      Source
	dst      Destination
	hooks    *hooks.Registry
	patterns []string
	opts     SrcOptions

	stages []Stage
	target Target
	onEnd  []func(ctx context.Context) error
}

// New returns a pipeline reading patterns from src. dst and reg may be nil:
// without a destination records end after the last stage, without a
// registry no hooks fire.
func New(src Source, dst Destination, reg *hooks.Registry, patterns []string, opts SrcOptions) *Pipeline {
	return &Pipeline{
		src:      src,
		dst:      dst,
		hooks:    reg,
		patterns: slices.Clone(patterns),
		opts:     opts,
	}
}

// Pipe appends a stage.
func (p *Pipeline) Pipe(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Dest sets the terminal write target.
func (p *Pipeline) Dest(t Target) *Pipeline {
	p.target = t
	return p
}

// OnEnd registers fn to run after every record has been processed and all
// stages flushed. Callbacks run in registration order.
func (p *Pipeline) OnEnd(fn func(ctx context.Context) error) *Pipeline {
	p.onEnd = append(p.onEnd, fn)
	return p
}

// Run drains the source through the pipeline. It returns the first error,
// after which no further records are emitted.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.src == nil {
		return errors.New("pipeline has no source")
	}
	if p.target != nil && p.dst == nil {
		return errors.New("pipeline has a target but no destination")
	}

	logger := ctxlog.FromContext(ctx)
	count := 0

	for rec, err := range p.src.Enumerate(ctx, p.patterns, p.opts) {
		if err != nil {
			return &StageError{Stage: "source", Err: err}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		if err := p.fire(ctx, hooks.OnLoad, rec); err != nil {
			return err
		}
		if rec.Skip {
			continue
		}
		if err := p.fire(ctx, hooks.OnStream, rec); err != nil {
			return err
		}
		if rec.Skip {
			continue
		}
		if err := p.push(ctx, 0, rec); err != nil {
			return err
		}
	}

	for i, s := range p.stages {
		f, ok := s.(Flusher)
		if !ok {
			continue
		}
		next := i + 1
		if err := f.Flush(ctx, func(out *file.Record) error { return p.forward(ctx, next, out) }); err != nil {
			return wrapStage(fmt.Sprintf("stage[%d]", i), "", err)
		}
	}

	for _, fn := range p.onEnd {
		if err := fn(ctx); err != nil {
			return &StageError{Stage: "end", Err: err}
		}
	}

	logger.Debug("pipeline drained", "patterns", p.patterns, "records", count)
	return nil
}

// push runs rec through stage i and, via emit, everything after it.
func (p *Pipeline) push(ctx context.Context, i int, rec *file.Record) error {
	if i == len(p.stages) {
		return p.write(ctx, rec)
	}
	next := i + 1
	err := p.stages[i].Transform(ctx, rec, func(out *file.Record) error {
		return p.forward(ctx, next, out)
	})
	if err != nil {
		return wrapStage(fmt.Sprintf("stage[%d]", i), rec.Relative(), err)
	}
	return nil
}

// forward hands an emitted record to stage i unless it was skipped.
func (p *Pipeline) forward(ctx context.Context, i int, rec *file.Record) error {
	if rec == nil || rec.Skip {
		return nil
	}
	return p.push(ctx, i, rec)
}

func (p *Pipeline) write(ctx context.Context, rec *file.Record) error {
	if p.target == nil {
		return nil
	}
	if err := p.fire(ctx, hooks.PreWrite, rec); err != nil {
		return err
	}
	if rec.Skip {
		return nil
	}

	dir, err := p.target.Dir(rec)
	if err != nil {
		return &StageError{Stage: "write", Path: rec.Relative(), Err: err}
	}
	if err := p.dst.Write(ctx, rec, dir); err != nil {
		var we *WriteError
		if !errors.As(err, &we) {
			err = &WriteError{Path: rec.Relative(), Err: err}
		}
		return &StageError{Stage: "write", Path: rec.Relative(), Err: err}
	}

	return p.fire(ctx, hooks.PostWrite, rec)
}

func (p *Pipeline) fire(ctx context.Context, stage hooks.Stage, rec *file.Record) error {
	if err := p.hooks.Fire(ctx, stage, rec); err != nil {
		return &StageError{Stage: string(stage), Path: rec.Relative(), Err: err}
	}
	return nil
}

// wrapStage keeps the innermost StageError so errors raised downstream are
// not re-attributed to every upstream stage they pass through.
func wrapStage(stage, path string, err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Path: path, Err: err}
}
