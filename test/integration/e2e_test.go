//go:build integration

package integration_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/scaffold"
)

// TestLegacyProjectDefault runs the whole default task on a package in the
// old layout and checks every file it should touch.
func TestLegacyProjectDefault(t *testing.T) {
	env := setupTestEnv(t)
	dir := env.ProjectDir
	setupLegacyProject(t, dir)

	out, err := runRecipe(t, dir, "default", map[string]any{"gitignore": []any{"coverage"}})
	if err != nil {
		t.Fatalf("default: %v\n%s", err, out)
	}

	for _, gone := range []string{".verbrc.md", "LICENSE-MIT", ".npmignore", "test"} {
		assertFileNotExists(t, filepath.Join(dir, gone))
	}
	for _, made := range []string{".verb.md", "README.md", "LICENSE", "test.js", ".editorconfig"} {
		assertFileExists(t, filepath.Join(dir, made))
	}

	assertFileContains(t, filepath.Join(dir, "index.js"), " * is-even <https://github.com/jonschlinkert/is-even>\n")
	assertFileContains(t, filepath.Join(dir, "index.js"), " * Copyright (c) 2014-")
	assertFileContains(t, filepath.Join(dir, "test.js"), "require('./')")
	assertFileContains(t, filepath.Join(dir, ".gitignore"), "coverage\n")
	assertFileContains(t, filepath.Join(dir, "LICENSE"), "The MIT License (MIT)")
	assertFileContains(t, filepath.Join(dir, "README.md"), "# is-even")
	assertFileContains(t, filepath.Join(dir, "README.md"), "isEven(2);")

	var pkg map[string]any
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "package.json"))), &pkg); err != nil {
		t.Fatalf("package.json: %v", err)
	}
	if pkg["license"] != "MIT" {
		t.Errorf("license = %v, want MIT", pkg["license"])
	}
	if _, ok := pkg["licenses"]; ok {
		t.Error("licenses should be removed")
	}
	if pkg["repository"] != "jonschlinkert/is-even" {
		t.Errorf("repository = %v", pkg["repository"])
	}

	if !strings.Contains(out, "✔ default finished in") {
		t.Errorf("report missing default summary:\n%s", out)
	}

	// A second run over the upgraded tree succeeds and leaves package.json alone.
	before := readFile(t, filepath.Join(dir, "package.json"))
	if out, err := runRecipe(t, dir, "default", map[string]any{}); err != nil {
		t.Fatalf("second default: %v\n%s", err, out)
	}
	if after := readFile(t, filepath.Join(dir, "package.json")); after != before {
		t.Errorf("package.json changed on second run:\n%s\n---\n%s", before, after)
	}
}

// TestInitThenDefault scaffolds a package and upgrades it straight away.
func TestInitThenDefault(t *testing.T) {
	env := setupTestEnv(t)
	dir := env.ProjectDir

	data := scaffold.NewData("is-odd", "Return true if the number is odd.", "Brian Woodward")
	result, err := scaffold.Generate(afero.NewOsFs(), "node", data, dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if out, err := runRecipe(t, dir, "default", map[string]any{}); err != nil {
		t.Fatalf("default: %v\n%s", err, out)
	}

	assertFileContains(t, filepath.Join(dir, "README.md"), "# is-odd")
	assertFileContains(t, filepath.Join(dir, "README.md"), "> Return true if the number is odd.")
	assertFileContains(t, filepath.Join(dir, ".gitignore"), "node_modules\n")
}

// TestUnknownTask reports the missing task without touching the project.
func TestUnknownTask(t *testing.T) {
	env := setupTestEnv(t)
	setupLegacyProject(t, env.ProjectDir)

	_, err := runRecipe(t, env.ProjectDir, "publish", map[string]any{})
	if err == nil || !strings.Contains(err.Error(), `task "publish" is not registered`) {
		t.Fatalf("err = %v", err)
	}
	assertFileExists(t, filepath.Join(env.ProjectDir, ".verbrc.md"))
}
