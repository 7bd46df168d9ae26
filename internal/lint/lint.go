package lint

import (
	"context"
	"errors"
	"fmt"
)

// Runner lints a set of files relative to a project directory.
type Runner interface {
	// Run lints files inside dir. A non-zero ExitCode means the tool
	// reported problems; the error return is reserved for failures to run.
	Run(ctx context.Context, dir string, files []string) (*Output, error)
}

// Output captures the result of a lint run.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Failed reports whether the linter found problems.
func (o *Output) Failed() bool {
	return o != nil && o.ExitCode != 0
}

// Supported tool identifiers.
const (
	ToolJSHint = "jshint"
	ToolESLint = "eslint"
)

// ErrNotInstalled is returned when the linter binary cannot be found.
var ErrNotInstalled = errors.New("linter not installed")

// Dispatch returns the Runner for the given tool identifier. Unknown tools
// get a runner that always errors.
func Dispatch(tool string) Runner {
	switch tool {
	case ToolJSHint:
		return &Command{Bin: "jshint", Args: []string{"--reporter", "unix"}}
	case ToolESLint:
		return &Command{Bin: "eslint", Args: []string{"--format", "unix"}}
	default:
		return &unknownRunner{name: tool}
	}
}

type unknownRunner struct {
	name string
}

func (u *unknownRunner) Run(context.Context, string, []string) (*Output, error) {
	return nil, fmt.Errorf("unknown linter %q: supported linters are %q and %q", u.name, ToolJSHint, ToolESLint)
}
