package plugins

import (
	"context"
	"strings"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

// DefaultIgnores are the entries every .gitignore should carry.
var DefaultIgnores = []string{
	"*.DS_Store",
	"*.sublime-*",
	"_gh_pages",
	"bower_components",
	"node_modules",
	"npm-debug.log",
	"actual",
	"test/actual",
	"temp",
	"tmp",
	"TODO.md",
	"vendor",
}

// GitIgnore appends the default entries, plus extra, that a .gitignore is
// missing. Existing lines and their order are kept.
func GitIgnore(extra ...string) pipeline.Stage {
	want := append(append([]string{}, DefaultIgnores...), extra...)

	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		if rec.Basename() != ".gitignore" {
			return nil
		}
		rec.SetContent(ensureLines(rec.Content(), want))
		return nil
	})
}

// ensureLines appends each missing line to content.
func ensureLines(content string, lines []string) string {
	present := make(map[string]bool)
	for _, l := range strings.Split(content, "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var b strings.Builder
	b.WriteString(content)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		b.WriteByte('\n')
	}
	for _, l := range lines {
		if present[l] {
			continue
		}
		present[l] = true
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
