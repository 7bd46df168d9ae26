package hooks

import (
	"context"
	"fmt"

	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/file"
)

// Stage names a fixed extension point of the pipeline.
type Stage string

const (
	// OnLoad fires right after the source yields a record.
	OnLoad Stage = "onLoad"
	// OnStream fires as a record enters the task's transform chain.
	OnStream Stage = "onStream"
	// PreWrite fires right before the destination write.
	PreWrite Stage = "preWrite"
	// PostWrite fires after a successful write.
	PostWrite Stage = "postWrite"
)

// AllStages lists the stages in pipeline order.
var AllStages = []Stage{OnLoad, OnStream, PreWrite, PostWrite}

// ParseStage converts a stage name into a Stage.
func ParseStage(s string) (Stage, bool) {
	for _, st := range AllStages {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Handler transforms a record in place. Returning signals completion; a
// handler that needs to wait on I/O simply blocks.
type Handler func(ctx context.Context, rec *file.Record) error

type registration struct {
	matcher Matcher
	handler Handler
}

// Registry holds handlers per stage in registration order. Registration is
// expected to finish before pipelines run; it is not safe for concurrent
// mutation.
type Registry struct {
	handlers map[Stage][]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Stage][]registration)}
}

// On registers handler for records whose path matches m at stage.
func (r *Registry) On(stage Stage, m Matcher, handler Handler) error {
	if _, ok := ParseStage(string(stage)); !ok {
		return fmt.Errorf("unknown hook stage %q", stage)
	}
	if m == nil {
		return fmt.Errorf("registering %s handler: matcher is required", stage)
	}
	if handler == nil {
		return fmt.Errorf("registering %s handler for %s: handler is required", stage, m)
	}
	r.handlers[stage] = append(r.handlers[stage], registration{matcher: m, handler: handler})
	return nil
}

// Len returns the number of handlers registered for stage.
func (r *Registry) Len(stage Stage) int {
	return len(r.handlers[stage])
}

// Fire runs every handler of stage whose matcher accepts rec's path, one at
// a time in registration order. Setting rec.Skip does not stop later
// handlers of the same stage. The first handler error is returned.
func (r *Registry) Fire(ctx context.Context, stage Stage, rec *file.Record) error {
	if r == nil {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	for i, reg := range r.handlers[stage] {
		if !reg.matcher.Match(rec.Path()) {
			continue
		}
		if err := reg.handler(ctx, rec); err != nil {
			return fmt.Errorf("%s handler #%d (%s): %w", stage, i+1, reg.matcher, err)
		}
		logger.Debug("hook fired", "stage", string(stage), "matcher", reg.matcher.String(), "path", rec.Relative())
	}
	return nil
}
