package plugins

import (
	"context"

	"github.com/iancoleman/orderedmap"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/jsonfile"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

var jshintDefaults = []struct {
	key   string
	value any
}{
	{"esnext", true},
	{"boss", true},
	{"curly", true},
	{"eqeqeq", true},
	{"eqnull", true},
	{"immed", true},
	{"indent", 2},
	{"latedef", true},
	{"newcap", true},
	{"noarg", true},
	{"node", true},
	{"mocha", true},
	{"sub", true},
	{"undef", true},
	{"unused", true},
}

// JSHintRC fills in the standard JSHint options a .jshintrc lacks. Options
// the project already sets are kept.
func JSHintRC() pipeline.Stage {
	defaults := orderedmap.New()
	for _, d := range jshintDefaults {
		defaults.Set(d.key, d.value)
	}

	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		out, err := jsonfile.Defaults(rec.Contents, defaults, jsonfile.Options{Newline: true})
		if err != nil {
			return err
		}
		rec.Contents = out
		return nil
	})
}
