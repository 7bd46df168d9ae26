package hooks

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a handler applies to a record path. Match must be
// a pure function of its argument.
type Matcher interface {
	Match(path string) bool
	String() string
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// Regexp returns a matcher testing the full record path against expr.
func Regexp(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling matcher %q: %w", expr, err)
	}
	return regexpMatcher{re: re}, nil
}

// MustRegexp is like Regexp but panics on an invalid expression.
func MustRegexp(expr string) Matcher {
	m, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func (m regexpMatcher) Match(path string) bool { return m.re.MatchString(path) }
func (m regexpMatcher) String() string         { return "/" + m.re.String() + "/" }

type globMatcher struct {
	pattern string
}

// Glob returns a matcher for a doublestar pattern. Patterns without a slash
// are tested against the base name, others against the whole slash path
// without its leading slash.
func Glob(pattern string) (Matcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	return globMatcher{pattern: pattern}, nil
}

func (m globMatcher) Match(path string) bool {
	target := strings.TrimPrefix(filepath.ToSlash(path), "/")
	if !strings.Contains(m.pattern, "/") {
		target = filepath.Base(path)
	}
	ok, _ := doublestar.Match(m.pattern, target)
	return ok
}

func (m globMatcher) String() string { return m.pattern }

type anyMatcher struct{}

// Any matches every path.
func Any() Matcher { return anyMatcher{} }

func (anyMatcher) Match(string) bool { return true }
func (anyMatcher) String() string    { return "*" }

// MatchFunc adapts a predicate into a Matcher. name is used in errors and logs.
func MatchFunc(name string, fn func(path string) bool) Matcher {
	return funcMatcher{name: name, fn: fn}
}

type funcMatcher struct {
	name string
	fn   func(string) bool
}

func (m funcMatcher) Match(path string) bool { return m.fn(path) }
func (m funcMatcher) String() string         { return m.name }
