// Package jsonfile edits JSON documents such as package.json and .jshintrc
// without disturbing the author's key order.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// Options controls how an edited document is serialized.
type Options struct {
	// Sort orders top-level keys alphabetically.
	Sort bool
	// Newline appends a trailing newline.
	Newline bool
}

// Parse decodes a JSON object keeping key order. Empty input yields an
// empty object. Nested objects decode as orderedmap.OrderedMap values.
func Parse(content []byte) (*orderedmap.OrderedMap, error) {
	o := orderedmap.New()
	o.SetEscapeHTML(false)
	if len(bytes.TrimSpace(content)) == 0 {
		return o, nil
	}
	if err := json.Unmarshal(content, o); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return o, nil
}

// Format serializes o with two-space indentation.
func Format(o *orderedmap.OrderedMap, opts Options) ([]byte, error) {
	o.SetEscapeHTML(false)
	if opts.Sort {
		o.SortKeys(sort.Strings)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}

	out := strings.TrimRight(buf.String(), "\n")
	if opts.Newline {
		out += "\n"
	}
	return []byte(out), nil
}

// Extend shallow-merges overrides into the document. Existing keys keep
// their position; new keys are appended in sorted order.
func Extend(content []byte, overrides map[string]any, opts Options) ([]byte, error) {
	o, err := Parse(content)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		o.Set(k, overrides[k])
	}
	return Format(o, opts)
}

// Defaults sets every key of defaults that the document lacks, in the
// order defaults lists them. Existing values win.
func Defaults(content []byte, defaults *orderedmap.OrderedMap, opts Options) ([]byte, error) {
	o, err := Parse(content)
	if err != nil {
		return nil, err
	}
	for _, k := range defaults.Keys() {
		if _, ok := o.Get(k); ok {
			continue
		}
		v, _ := defaults.Get(k)
		o.Set(k, v)
	}
	return Format(o, opts)
}

// Object returns the nested object stored at key, or a new empty one.
func Object(o *orderedmap.OrderedMap, key string) orderedmap.OrderedMap {
	if v, ok := o.Get(key); ok {
		if m, ok := v.(orderedmap.OrderedMap); ok {
			return m
		}
	}
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return *m
}
