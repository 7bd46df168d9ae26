package task

import (
	"fmt"
	"strings"
)

// DuplicateTaskError is returned when a task name is registered twice.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q is already registered", e.Name)
}

// UnknownTaskError is returned when a requested task or a dependency is not
// registered. RequiredBy is empty for the task passed to Run.
type UnknownTaskError struct {
	Name       string
	RequiredBy string
}

func (e *UnknownTaskError) Error() string {
	if e.RequiredBy == "" {
		return fmt.Sprintf("task %q is not registered", e.Name)
	}
	return fmt.Sprintf("task %q (required by %q) is not registered", e.Name, e.RequiredBy)
}

// CyclicDependencyError is returned when resolution revisits a task that is
// still being resolved. Path starts and ends with the same task.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic task dependency: " + strings.Join(e.Path, " -> ")
}

// TaskError wraps the failure of a task body.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
