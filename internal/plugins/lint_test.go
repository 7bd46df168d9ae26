package plugins

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/lint"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/report"
)

type fakeRunner struct {
	calls int
	dir   string
	files []string
	out   *lint.Output
	err   error
}

func (f *fakeRunner) Run(_ context.Context, dir string, files []string) (*lint.Output, error) {
	f.calls++
	f.dir = dir
	f.files = files
	return f.out, f.err
}

func TestLint_RunsOnceOnFlush(t *testing.T) {
	runner := &fakeRunner{out: &lint.Output{}}
	var buf bytes.Buffer

	out := runStage(t, Lint(runner, report.New(&buf), false),
		record("index.js", ""), record("README.md", ""), record("lib/a.js", ""))

	assert.Empty(t, out)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, testBase, runner.dir)
	assert.Equal(t, []string{"index.js", "lib/a.js"}, runner.files)
	assert.Equal(t, "i linted 2 files\n", buf.String())
}

func TestLint_NoFiles(t *testing.T) {
	runner := &fakeRunner{}
	runStage(t, Lint(runner, report.New(nil), true), record("README.md", ""))
	assert.Zero(t, runner.calls)
}

func TestLint_NotInstalled(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: jshint", lint.ErrNotInstalled)}
	var buf bytes.Buffer

	runStage(t, Lint(runner, report.New(&buf), true), record("index.js", ""))
	assert.Equal(t, "! skipped lint: linter not installed: jshint\n", buf.String())
}

func TestLint_Findings(t *testing.T) {
	runner := &fakeRunner{out: &lint.Output{ExitCode: 2, Stdout: "index.js:1:5: Missing semicolon.\n"}}
	var buf bytes.Buffer

	stage := Lint(runner, report.New(&buf), false)
	runStage(t, stage, record("index.js", ""))
	assert.Equal(t, "! index.js:1:5: Missing semicolon.\ni linted 1 file\n", buf.String())

	strict := Lint(runner, report.New(nil), true)
	require.NoError(t, strict.Transform(t.Context(), record("index.js", ""), nil))
	err := strict.(pipeline.Flusher).Flush(t.Context(), nil)
	assert.ErrorContains(t, err, "status 2")
}
