package plugins

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
	"github.com/revamp-labs/revamp/internal/render"
)

// Stats describes the project layout a .verb.md is generated for.
type Stats struct {
	// Files lists the root entries plus the entries of test/.
	Files     []string
	HasTravis bool
}

// HasTests reports whether the project has a test.js or a test/ dir.
func (s Stats) HasTests() bool {
	return slices.Contains(s.Files, "test.js") || slices.Contains(s.Files, "test")
}

// StatsFrom converts the stats map kept in the config store.
func StatsFrom(v any) Stats {
	m, ok := v.(map[string]any)
	if !ok {
		return Stats{}
	}
	var s Stats
	switch files := m["files"].(type) {
	case []string:
		s.Files = files
	case []any:
		for _, f := range files {
			if str, ok := f.(string); ok {
				s.Files = append(s.Files, str)
			}
		}
	}
	s.HasTravis, _ = m["hastravis"].(bool)
	if !s.HasTravis {
		s.HasTravis, _ = m["hasTravis"].(bool)
	}
	return s
}

// generatedSections are rebuilt on every run; anything else in the file is
// kept in its original order.
var generatedSections = []string{"install", "running tests", "contributing", "author", "license"}

// VerbMD rewrites a .verb.md readme template into the standard layout:
// title with badges, install, the project's own sections (usage, API...),
// tests, contributing, author and license. Front matter is preserved.
func VerbMD(info pkgmeta.Info, stats Stats) pipeline.Stage {
	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		if rec.Ext() != ".md" {
			return nil
		}
		_, sections := splitSections(rec.Content())

		var b strings.Builder
		if matter, ok := rec.Data["matter"].(string); ok {
			b.WriteString("---\n")
			if matter != "" {
				b.WriteString(matter)
				b.WriteByte('\n')
			}
			b.WriteString("---\n\n")
		}

		b.WriteString("# {%= .name %}")
		if slug := repoSlug(info.Repository); slug != "" {
			fmt.Fprintf(&b, " [![NPM version](https://badge.fury.io/js/%s.svg)](http://badge.fury.io/js/%s)", info.Name, info.Name)
			if stats.HasTravis {
				fmt.Fprintf(&b, " [![Build Status](https://travis-ci.org/%s.svg)](https://travis-ci.org/%s)", slug, slug)
			}
		}
		b.WriteString("\n\n> {%= .description %}\n\n")

		b.WriteString("## Install\n\n```bash\nnpm i {%= .name %} --save\n```\n\n")

		custom := false
		for _, s := range sections {
			if slices.Contains(generatedSections, strings.ToLower(s.title)) {
				continue
			}
			custom = true
			b.WriteString(migrateTags(s.text))
			b.WriteString("\n\n")
		}
		if !custom {
			fmt.Fprintf(&b, "## Usage\n\n```js\nvar %s = require('{%%= .name %%}');\n```\n\n", camelCase(info.Name))
		}

		if stats.HasTests() {
			b.WriteString("## Running tests\n\nInstall dev dependencies:\n\n```bash\nnpm i -d && npm test\n```\n\n")
		}

		b.WriteString("## Contributing\n\nPull requests and stars are always welcome.")
		if info.Repository != "" {
			fmt.Fprintf(&b, " For bugs and feature requests, [please create an issue](%s/issues/new).", info.Repository)
		}
		b.WriteString("\n\n")

		if info.Author.Name != "" {
			fmt.Fprintf(&b, "## Author\n\n**%s**\n\n", info.Author.Name)
			if info.Author.URL != "" {
				fmt.Fprintf(&b, "+ [%s](%s)\n\n", info.Author.URL, info.Author.URL)
			}
		}

		fmt.Fprintf(&b, "## License\n\nCopyright (c) {%%= year %%} %s\nReleased under the %s license.\n", info.Author.Name, licenseName(info.License))

		rec.SetContent(b.String())
		return nil
	})
}

var (
	tagRe   = regexp.MustCompile(`\{%=\s*(.*?)\s*%\}`)
	identRe = regexp.MustCompile(`^[A-Za-z_]\w*(\.\w+)*$`)
)

// keywords and helpers that already read as template actions.
var actionWords = []string{"if", "else", "end", "range", "with", "define", "block", "template", "break", "continue"}

// migrateTags rewrites old-style tags for the template renderer: a bare
// variable like {%= name %} becomes {%= .name %}, and helper calls the
// renderer does not know, such as {%= docs("api") %}, are kept verbatim by
// emitting them as string literals. Tags already in the new form are left
// as they are.
func migrateTags(text string) string {
	funcs := render.Funcs()
	return tagRe.ReplaceAllStringFunc(text, func(tag string) string {
		expr := tagRe.FindStringSubmatch(tag)[1]
		if expr == "" || strings.HasPrefix(expr, ".") || strings.HasPrefix(expr, `"`) || strings.HasPrefix(expr, "$") {
			return tag
		}
		if words := strings.FieldsFunc(expr, func(r rune) bool { return r == ' ' || r == '(' }); len(words) > 0 {
			if _, ok := funcs[words[0]]; ok || slices.Contains(actionWords, words[0]) {
				return tag
			}
		}
		if identRe.MatchString(expr) {
			return render.LeftDelim + " ." + expr + " " + render.RightDelim
		}
		return render.LeftDelim + " " + strconv.Quote(tag) + " " + render.RightDelim
	})
}

type section struct {
	title string
	text  string
}

// splitSections splits markdown at level-2 headings. The text before the
// first heading is returned separately.
func splitSections(content string) (string, []section) {
	var (
		intro    []string
		sections []section
		cur      *section
		lines    []string
	)
	closeSection := func() {
		if cur != nil {
			cur.text = strings.TrimRight(strings.Join(lines, "\n"), "\n ")
			sections = append(sections, *cur)
		}
	}
	fenced := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			fenced = !fenced
		}
		if !fenced && strings.HasPrefix(line, "## ") {
			closeSection()
			cur = &section{title: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			lines = []string{line}
			continue
		}
		if cur == nil {
			intro = append(intro, line)
			continue
		}
		lines = append(lines, line)
	}
	closeSection()
	return strings.TrimSpace(strings.Join(intro, "\n")), sections
}

func repoSlug(repo string) string {
	const gh = "https://github.com/"
	if !strings.HasPrefix(repo, gh) {
		return ""
	}
	return strings.TrimPrefix(repo, gh)
}

// camelCase turns a package name like "is-number" into "isNumber".
func camelCase(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == '.' })
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	if len(parts) == 0 {
		return "lib"
	}
	return strings.Join(parts, "")
}
