package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

type fakeSettings map[string]any

func (f fakeSettings) Get(key string) any { return f[key] }

func (f fakeSettings) GetBool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

const oldPkg = `{
  "name": "is-number",
  "version": "v0.1",
  "main": "index.js",
  "files": ["lib"],
  "repository": {
    "type": "git",
    "url": "git://github.com/jonschlinkert/is-number.git"
  },
  "licenses": [{"type": "MIT", "url": "https://example.com/LICENSE"}],
  "engines": {"node": ">=0.8"}
}`

func TestPkg_Normalizes(t *testing.T) {
	out := runStage(t, Pkg(fakeSettings{}), record("package.json", oldPkg))
	require.Len(t, out, 1)

	assert.Equal(t, `{
  "name": "is-number",
  "version": "0.1.0",
  "main": "index.js",
  "files": [
    "lib",
    "index.js"
  ],
  "repository": "jonschlinkert/is-number",
  "engines": {
    "node": ">=0.8"
  },
  "license": "MIT",
  "scripts": {
    "test": "mocha"
  }
}`, out[0].Content())
	assert.Empty(t, out[0].Data["issues"])
}

func TestPkg_OverridesSortNewline(t *testing.T) {
	settings := fakeSettings{
		PkgOverridesKey: map[string]any{"private": true},
		PkgSortKey:      true,
		PkgNewlineKey:   true,
	}
	out := runStage(t, Pkg(settings), record("package.json", `{"name":"b","version":"1.2.3","license":"ISC","scripts":{"test":"tap"}}`))

	assert.Equal(t, `{
  "engines": {
    "node": ">=0.10.0"
  },
  "license": "ISC",
  "name": "b",
  "private": true,
  "scripts": {
    "test": "tap"
  },
  "version": "1.2.3"
}
`, out[0].Content())
}

func TestPkg_ReportsSchemaIssues(t *testing.T) {
	out := runStage(t, Pkg(fakeSettings{}), record("package.json", `{"name":"Bad Name","version":"1.0.0"}`))

	issues, ok := out[0].Data["issues"].([]pkgmeta.ValidationIssue)
	require.True(t, ok)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/name", issues[0].Path)
}

func TestPkg_IgnoresOtherFiles(t *testing.T) {
	out := runStage(t, Pkg(fakeSettings{}), record("bower.json", `{"name":"x"}`))
	assert.Equal(t, `{"name":"x"}`, out[0].Content())
}
