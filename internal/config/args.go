package config

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseArgs parses raw command-line arguments into a flag map, in the
// manner of minimist:
//
//	--key=value   key: value
//	--key value   key: value (when the next argument is not a flag)
//	--key         key: true
//	--no-key      key: false
//	-abc          a, b, c: true
//	--            everything after is positional
//
// Positional arguments are collected under "_". Values that look like
// booleans or numbers are converted. Repeated keys collect into a slice.
// Flags named in bools never consume the following argument unless it is
// "true" or "false".
func ParseArgs(raw []string, bools ...string) map[string]any {
	out := map[string]any{"_": []any{}}
	isBool := make(map[string]bool, len(bools))
	for _, b := range bools {
		isBool[b] = true
	}
	positional := func(v string) {
		out["_"] = append(out["_"].([]any), coerce(v))
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--":
			for _, rest := range raw[i+1:] {
				positional(rest)
			}
			return out

		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if k, v, ok := strings.Cut(name, "="); ok {
				setArg(out, k, coerce(v))
				continue
			}
			if k, ok := strings.CutPrefix(name, "no-"); ok {
				setArg(out, k, false)
				continue
			}
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") && (!isBool[name] || isBoolWord(raw[i+1])) {
				setArg(out, name, coerce(raw[i+1]))
				i++
				continue
			}
			setArg(out, name, true)

		case strings.HasPrefix(arg, "-") && len(arg) > 1 && !isNumber(arg):
			letters := strings.TrimPrefix(arg, "-")
			if k, v, ok := strings.Cut(letters, "="); ok && len(k) == 1 {
				setArg(out, k, coerce(v))
				continue
			}
			for _, r := range letters {
				setArg(out, string(r), true)
			}

		default:
			positional(arg)
		}
	}
	return out
}

func setArg(out map[string]any, key string, value any) {
	prev, exists := out[key]
	if !exists {
		out[key] = value
		return
	}
	if list, ok := prev.([]any); ok {
		out[key] = append(list, value)
		return
	}
	out[key] = []any{prev, value}
}

func isBoolWord(s string) bool { return s == "true" || s == "false" }

var numberRe = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)

func isNumber(s string) bool { return numberRe.MatchString(s) }

func coerce(s string) any {
	switch {
	case s == "true":
		return true
	case s == "false":
		return false
	case isNumber(s):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// Expand turns flat dotted or bracketed keys into nested maps:
//
//	{"a.b": 1, "c[d]": 2}  →  {"a": {"b": 1}, "c": {"d": 2}}
//
// Keys without separators, and "_", are copied unchanged. When a prefix is
// both a leaf and a parent, the nested form wins.
func Expand(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for key, value := range flat {
		if key == "_" {
			out[key] = value
			continue
		}
		insertPath(out, splitKey(key), value)
	}
	return out
}

var bracketRe = regexp.MustCompile(`\[([^\]]*)\]`)

func splitKey(key string) []string {
	key = bracketRe.ReplaceAllString(key, ".$1")
	var parts []string
	for _, p := range strings.Split(key, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func insertPath(m map[string]any, path []string, value any) {
	if len(path) == 0 {
		return
	}
	head := path[0]
	if len(path) == 1 {
		if _, isMap := m[head].(map[string]any); isMap {
			return
		}
		m[head] = value
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[head] = child
	}
	insertPath(child, path[1:], value)
}
