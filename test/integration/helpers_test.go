//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/app"
	"github.com/revamp-labs/revamp/internal/config"
	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
	"github.com/revamp-labs/revamp/internal/recipe"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // REVAMP_HOME, holds config.yaml
	ProjectDir string // the package being revamped
}

// setupTestEnv creates isolated temp directories and points REVAMP_HOME at
// one of them so user settings never leak into a test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("REVAMP_HOME", env.HomeDir)
	return env
}

// setupLegacyProject writes a package laid out the way older generators
// left it: .verbrc.md, LICENSE-MIT, test/ with a single file and a plural
// licenses field.
func setupLegacyProject(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "package.json"), `{
  "name": "is-even",
  "description": "Return true if the given number is even.",
  "version": "0.2.1",
  "author": "Jon Schlinkert (https://github.com/jonschlinkert)",
  "repository": "git://github.com/jonschlinkert/is-even.git",
  "licenses": [{"type": "MIT", "url": "https://github.com/jonschlinkert/is-even/blob/master/LICENSE-MIT"}],
  "main": "index.js"
}
`)
	writeFile(t, filepath.Join(dir, "index.js"), `/*!
 * is-even <https://github.com/jonschlinkert/is-even>
 *
 * Copyright (c) 2014 Jon Schlinkert, contributors.
 * Licensed under the MIT License
 */

module.exports = function isEven(n) {
  return n % 2 === 0;
};
`)
	writeFile(t, filepath.Join(dir, "test", "test.js"), `var assert = require('assert');
var isEven = require('../');

describe('isEven', function () {
  it('should be true for 2', function () {
    assert.ok(isEven(2));
  });
});
`)
	writeFile(t, filepath.Join(dir, "test", "mocha.opts"), "--reporter dot\n")
	writeFile(t, filepath.Join(dir, ".verbrc.md"), "# {%= name %}\n\n## Usage\n\n```js\nisEven(2);\n```\n")
	writeFile(t, filepath.Join(dir, "LICENSE-MIT"), "Copyright (c) 2014 Jon Schlinkert, contributors.\n")
	writeFile(t, filepath.Join(dir, ".npmignore"), "test\n")
	writeFile(t, filepath.Join(dir, ".gitignore"), "node_modules\n")
}

// runRecipe builds the merged configuration and app for dir the same way
// the CLI does and runs one task.
func runRecipe(t *testing.T, dir, name string, argv map[string]any) (string, error) {
	t.Helper()

	fsys := afero.NewOsFs()
	cfg := config.New()
	cfg.SetDefaults(recipe.Defaults())
	if err := cfg.LoadUserFile(); err != nil {
		t.Fatalf("LoadUserFile: %v", err)
	}
	pkg, err := pkgmeta.Load(fsys, dir)
	if err != nil {
		t.Fatalf("pkgmeta.Load: %v", err)
	}
	if err := cfg.MergePackage(pkg); err != nil {
		t.Fatalf("MergePackage: %v", err)
	}
	cfg.ApplyArgv(argv)

	var out bytes.Buffer
	a, err := app.New(app.Options{Cwd: dir, Fs: fsys, Config: cfg, Out: &out, Logger: ctxlog.Discard()})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	if err := recipe.Register(a); err != nil {
		t.Fatalf("recipe.Register: %v", err)
	}
	err = a.Run(context.Background(), name)
	return out.String(), err
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
