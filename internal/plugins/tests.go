package plugins

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

var (
	parentRequireRe = regexp.MustCompile(`require\((['"])\.\.(?:/(?:index(?:\.js)?)?)?(['"])\)`)
	useStrictRe     = regexp.MustCompile(`(?m)^\s*['"]use strict['"];?\s*$`)
	mochaDepsRe     = regexp.MustCompile(`(?m)^/\* deps:.*\*/\s*$`)
)

// Tests normalizes mocha test files: a "use strict" directive and a
// deps comment at the top, and require('../') rewritten to require('./')
// for a test.js that lives in the project root.
func Tests() pipeline.Stage {
	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		if rec.Ext() != ".js" {
			return nil
		}
		content := rec.Content()

		if filepath.ToSlash(rec.Relative()) == "test.js" {
			content = parentRequireRe.ReplaceAllString(content, "require(${1}./${2})")
		}

		var header []string
		if !useStrictRe.MatchString(content) {
			header = append(header, "'use strict';")
		}
		if !mochaDepsRe.MatchString(content) {
			header = append(header, "/* deps: mocha */")
		}
		if len(header) == 0 {
			rec.SetContent(content)
			return nil
		}

		banner, body := splitLeadingComment(content)
		rec.SetContent(banner + strings.Join(header, "\n") + "\n" + body)
		return nil
	})
}

// splitLeadingComment separates a leading /* ... */ block (with the blank
// line after it) from the rest of content.
func splitLeadingComment(content string) (string, string) {
	if !strings.HasPrefix(content, "/*") {
		return "", content
	}
	end := strings.Index(content, "*/")
	if end < 0 {
		return "", content
	}
	rest := strings.TrimLeft(content[end+2:], "\r\n")
	return content[:end+2] + "\n\n", rest
}
