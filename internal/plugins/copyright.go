package plugins

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// now is swapped out by tests.
var now = time.Now

// Copyright is a parsed copyright statement.
type Copyright struct {
	Statement string
	Years     string
	Holder    string
}

var copyrightRe = regexp.MustCompile(`(?im)copyright\s+(?:\(c\)\s*|©\s*)?(\d{4}(?:\s*[-–,]\s*\d{4})*)[,.]?[ \t]*([^\n*]*?)[ \t]*\.?[ \t]*$`)

// ParseCopyright returns the first copyright statement in text, or nil.
func ParseCopyright(text string) *Copyright {
	m := copyrightRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &Copyright{
		Statement: strings.TrimSpace(m[0]),
		Years:     strings.Join(strings.Fields(m[1]), ""),
		Holder:    strings.TrimSpace(m[2]),
	}
}

// UpdateYears extends a year range to the given year:
// "2014" → "2014-2016", "2013-2015" → "2013-2016".
func UpdateYears(years string, year int) string {
	current := strconv.Itoa(year)
	if len(years) < 4 {
		return current
	}
	first := years[:4]
	if _, err := strconv.Atoi(first); err != nil || first >= current {
		return current
	}
	return first + "-" + current
}

// copyrightOf returns the copyright stored on a record by an onLoad hook,
// falling back to parsing text.
func copyrightOf(data map[string]any, text string) *Copyright {
	if c, ok := data["copyright"].(*Copyright); ok && c != nil {
		return c
	}
	return ParseCopyright(text)
}
