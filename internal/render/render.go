package render

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"text/template"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/revamp-labs/revamp/internal/file"
)

const fence = "---"

// Template actions are delimited {%= ... %}; {{ }} in a document is plain
// text.
const (
	LeftDelim  = "{%="
	RightDelim = "%}"
)

// ParseFrontMatter moves a leading YAML front-matter block from rec's
// contents into rec.Data (keys already present in Data are overwritten) and
// stores the raw block under Data["matter"]. Records without front matter
// are left alone.
func ParseFrontMatter(rec *file.Record) error {
	content := rec.Content()
	if !strings.HasPrefix(content, fence) {
		return nil
	}

	rest := strings.TrimPrefix(content, fence)
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 || strings.TrimSpace(rest[:nl]) != "" {
		return nil
	}
	rest = rest[nl+1:]

	end := strings.Index(rest, "\n"+fence)
	var matter, body string
	switch {
	case strings.HasPrefix(rest, fence):
		matter, body = "", rest[len(fence):]
	case end >= 0:
		matter, body = rest[:end], rest[end+1+len(fence):]
	default:
		return fmt.Errorf("front matter in %s is not closed", rec.Relative())
	}
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")

	data := make(map[string]any)
	if err := yaml.Unmarshal([]byte(matter), &data); err != nil {
		return fmt.Errorf("parsing front matter in %s: %w", rec.Relative(), err)
	}

	maps.Copy(rec.Data, data)
	rec.Data["matter"] = matter
	rec.SetContent(body)
	return nil
}

// Render executes rec's contents as a text/template using LeftDelim and
// RightDelim. Front-matter values in
// rec.Data take precedence over ctx. Missing keys render as empty values.
func Render(rec *file.Record, ctx map[string]any) error {
	data := make(map[string]any, len(ctx)+len(rec.Data))
	maps.Copy(data, ctx)
	for k, v := range rec.Data {
		if k != "matter" {
			data[k] = v
		}
	}

	tmpl, err := template.New(rec.Relative()).
		Delims(LeftDelim, RightDelim).
		Option("missingkey=zero").
		Funcs(Funcs()).
		Parse(rec.Content())
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", rec.Relative(), err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template %s: %w", rec.Relative(), err)
	}
	rec.Contents = buf.Bytes()
	return nil
}

// Funcs returns the helpers available to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"default": func(def, v any) any {
			if v == nil {
				return def
			}
			if s, ok := v.(string); ok && s == "" {
				return def
			}
			return v
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
