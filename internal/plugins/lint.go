package plugins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/lint"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/report"
)

type lintStage struct {
	runner lint.Runner
	rep    *report.Reporter
	strict bool

	dir   string
	files []string
}

// Lint collects the .js records it sees and lints them in a single run of
// runner once the stream ends. Records are consumed, not forwarded. A
// missing linter is reported and skipped; linter findings are reported and
// only fail the stage when strict is set.
func Lint(runner lint.Runner, rep *report.Reporter, strict bool) pipeline.Stage {
	return &lintStage{runner: runner, rep: rep, strict: strict}
}

func (s *lintStage) Transform(_ context.Context, rec *file.Record, _ pipeline.Emit) error {
	if rec.Ext() != ".js" {
		return nil
	}
	if s.dir == "" {
		s.dir = rec.Base()
	}
	s.files = append(s.files, rec.Relative())
	return nil
}

func (s *lintStage) Flush(ctx context.Context, _ pipeline.Emit) error {
	if len(s.files) == 0 {
		return nil
	}

	out, err := s.runner.Run(ctx, s.dir, s.files)
	if errors.Is(err, lint.ErrNotInstalled) {
		s.rep.Warn("skipped lint:", err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimSpace(out.Stdout+"\n"+out.Stderr), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			s.rep.Warn(line, "")
		}
	}
	s.rep.Count("linted", len(s.files))

	if out.Failed() && s.strict {
		return fmt.Errorf("linter exited with status %d", out.ExitCode)
	}
	return nil
}
