// Package render handles template records: it lifts YAML front matter into
// a record's data map and expands Go text/template actions, written
// {%= .name %}, in the contents just before a record is written.
package render
