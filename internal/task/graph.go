package task

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/revamp-labs/revamp/internal/ctxlog"
)

// DefaultTask is run when no task name is given.
const DefaultTask = "default"

// Body is the runnable part of a task. It must not return before all work
// it started (including streaming) has completed.
type Body func(ctx context.Context) error

// Phase identifies an observer notification.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseFinish
)

// Observer is notified when a task starts and finishes. err is the body's
// error on PhaseFinish.
type Observer func(name string, phase Phase, elapsed time.Duration, err error)

type node struct {
	name string
	deps []string
	body Body
}

// Graph is a set of named tasks. It is not safe for concurrent mutation;
// register everything before calling Run.
type Graph struct {
	nodes     map[string]*node
	order     []string // registration order
	observers []Observer
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Register adds a task. Dependencies may name tasks registered later; they
// are only checked when the graph is resolved. A nil body makes the task a
// pure aggregator.
func (g *Graph) Register(name string, deps []string, body Body) error {
	if name == "" {
		return fmt.Errorf("task name is required")
	}
	if _, exists := g.nodes[name]; exists {
		return &DuplicateTaskError{Name: name}
	}
	g.nodes[name] = &node{name: name, deps: slices.Clone(deps), body: body}
	g.order = append(g.order, name)
	return nil
}

// Has reports whether name is registered.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Names returns registered task names sorted alphabetically.
func (g *Graph) Names() []string {
	names := slices.Clone(g.order)
	sort.Strings(names)
	return names
}

// Dependencies returns the declared dependencies of name.
func (g *Graph) Dependencies(name string) ([]string, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(n.deps), true
}

// OnTask registers an observer for task start/finish events.
func (g *Graph) OnTask(o Observer) {
	g.observers = append(g.observers, o)
}

// Resolve returns the execution order for name: every transitive dependency
// exactly once, each before the tasks that declare it, and name last.
func (g *Graph) Resolve(name string) ([]string, error) {
	if _, ok := g.nodes[name]; !ok {
		return nil, &UnknownTaskError{Name: name}
	}

	r := &resolver{
		graph:    g,
		done:     make(map[string]bool),
		visiting: make(map[string]bool),
	}
	if err := r.visit(name, ""); err != nil {
		return nil, err
	}
	return r.order, nil
}

type resolver struct {
	graph    *Graph
	done     map[string]bool
	visiting map[string]bool
	stack    []string
	order    []string
}

func (r *resolver) visit(name, requiredBy string) error {
	if r.done[name] {
		return nil
	}
	if r.visiting[name] {
		start := slices.Index(r.stack, name)
		path := append(slices.Clone(r.stack[start:]), name)
		return &CyclicDependencyError{Path: path}
	}

	n, ok := r.graph.nodes[name]
	if !ok {
		return &UnknownTaskError{Name: name, RequiredBy: requiredBy}
	}

	r.visiting[name] = true
	r.stack = append(r.stack, name)

	// Dependencies first.
	for _, dep := range n.deps {
		if err := r.visit(dep, name); err != nil {
			return err
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.visiting[name] = false
	r.done[name] = true
	r.order = append(r.order, name)
	return nil
}

// Run resolves name and executes the resulting tasks sequentially. No body
// runs if resolution fails. The first failing body stops the schedule and
// is returned as a *TaskError; a cancelled context stops scheduling too.
func (g *Graph) Run(ctx context.Context, name string) error {
	order, err := g.Resolve(name)
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("resolved task order", "task", name, "order", order)

	for _, taskName := range order {
		if err := ctx.Err(); err != nil {
			return &TaskError{Task: taskName, Err: err}
		}

		n := g.nodes[taskName]
		g.notify(taskName, PhaseStart, 0, nil)
		started := time.Now()

		var bodyErr error
		if n.body != nil {
			bodyErr = n.body(ctxlog.WithLogger(ctx, logger.With("task", taskName)))
		}

		elapsed := time.Since(started)
		g.notify(taskName, PhaseFinish, elapsed, bodyErr)
		if bodyErr != nil {
			return &TaskError{Task: taskName, Err: bodyErr}
		}
	}
	return nil
}

func (g *Graph) notify(name string, phase Phase, elapsed time.Duration, err error) {
	for _, o := range g.observers {
		o(name, phase, elapsed, err)
	}
}
