// Package report prints the short, human-facing progress lines of a run
// ("✔ renamed LICENSE"). Diagnostics go to the slog logger instead.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter writes progress lines to an output stream.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	printer *message.Printer
}

// New returns a reporter writing to out. A nil writer discards output.
func New(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out, printer: message.NewPrinter(language.English)}
}

// Success reports a completed action on subject.
func (r *Reporter) Success(action, subject string) {
	r.line("✔", action, subject)
}

// Info reports a neutral event.
func (r *Reporter) Info(action, subject string) {
	r.line("i", action, subject)
}

// Warn reports a problem that did not stop the run.
func (r *Reporter) Warn(action, subject string) {
	r.line("!", action, subject)
}

// Task reports a finished task with its duration.
func (r *Reporter) Task(name string, elapsed time.Duration, err error) {
	if err != nil {
		r.line("✖", name, "failed after "+elapsed.Round(time.Millisecond).String())
		return
	}
	r.line("✔", name, "finished in "+elapsed.Round(time.Millisecond).String())
}

// Count reports a number of processed files, e.g. "linted 1,024 files".
func (r *Reporter) Count(action string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	noun := "files"
	if n == 1 {
		noun = "file"
	}
	r.printer.Fprintf(r.out, "i %s %d %s\n", action, n, noun)
}

func (r *Reporter) line(mark, action, subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subject == "" {
		fmt.Fprintf(r.out, "%s %s\n", mark, action)
		return
	}
	fmt.Fprintf(r.out, "%s %s %s\n", mark, action, subject)
}
