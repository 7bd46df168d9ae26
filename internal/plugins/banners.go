package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

// Banners replaces the leading license banner of JavaScript files with a
// standard one built from package metadata. Years are extended to the
// current year; the holder of an existing copyright is kept.
func Banners(info pkgmeta.Info) pipeline.Stage {
	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		if rec.Ext() != ".js" {
			return nil
		}
		content := rec.Content()

		holder := info.Author.Name
		years := UpdateYears("", now().Year())
		if c := copyrightOf(rec.Data, content); c != nil {
			years = UpdateYears(c.Years, now().Year())
			if c.Holder != "" {
				holder = c.Holder
			}
		}

		shebang, body := splitShebang(content)
		body = stripBanner(body)
		rec.SetContent(shebang + banner(info, years, holder) + "\n\n" + body)
		return nil
	})
}

func banner(info pkgmeta.Info, years, holder string) string {
	var b strings.Builder
	b.WriteString("/*!\n * ")
	b.WriteString(info.Name)
	if info.Homepage != "" {
		fmt.Fprintf(&b, " <%s>", info.Homepage)
	}
	b.WriteString("\n *\n")
	fmt.Fprintf(&b, " * Copyright (c) %s, %s.\n", years, holder)
	fmt.Fprintf(&b, " * Licensed under the %s License.\n", licenseName(info.License))
	b.WriteString(" */")
	return b.String()
}

func licenseName(l string) string {
	if l == "" {
		return "MIT"
	}
	return l
}

func splitShebang(content string) (string, string) {
	if !strings.HasPrefix(content, "#!") {
		return "", content
	}
	nl := strings.IndexByte(content, '\n')
	if nl < 0 {
		return content + "\n\n", ""
	}
	return content[:nl+1] + "\n", strings.TrimLeft(content[nl+1:], "\r\n")
}

// stripBanner removes a leading block comment that looks like a banner.
func stripBanner(content string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, "/*") {
		return content
	}
	end := strings.Index(trimmed, "*/")
	if end < 0 {
		return content
	}
	block := strings.ToLower(trimmed[:end])
	if !strings.HasPrefix(trimmed, "/*!") && !strings.Contains(block, "copyright") && !strings.Contains(block, "licensed") {
		return content
	}
	return strings.TrimLeft(trimmed[end+2:], " \t\r\n")
}
