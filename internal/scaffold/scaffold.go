package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"

	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

//go:embed all:templates
var templateFS embed.FS

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name        string // e.g., "is-number"
	Description string
	Author      string
	License     string
	Version     string // Semver, e.g., "0.1.0"
	Var         string // Derived: "isNumber"
	Year        int    // Current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Skipped   []string
	Warnings  []string
}

// NewData creates Data with derived fields populated.
func NewData(name, description, author string) *Data {
	if description == "" {
		description = "The " + name + " module."
	}
	return &Data{
		Name:        name,
		Description: description,
		Author:      author,
		License:     "MIT",
		Version:     "0.1.0",
		Var:         varName(name),
		Year:        time.Now().Year(),
	}
}

// varName turns a package name into a JavaScript identifier.
func varName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == '.' })
	if len(parts) == 0 {
		return "lib"
	}
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// outputName maps a template file name to the generated file name:
// ".tmpl" and ".raw" suffixes are dropped and a leading "_" becomes ".".
func outputName(name string) (string, bool) {
	raw := strings.HasSuffix(name, ".raw")
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".tmpl"), ".raw")
	if strings.HasPrefix(name, "_") {
		name = "." + name[1:]
	}
	return name, raw
}

// Generate writes the named template set into outputDir. An existing
// package.json is an error; other existing files are left alone and listed
// in Result.Skipped.
func Generate(fsys afero.Fs, set string, data *Data, outputDir string) (*Result, error) {
	templatesDir := path.Join("templates", set)

	entries, err := fs.ReadDir(templateFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}

	if ok, _ := afero.Exists(fsys, filepath.Join(outputDir, pkgmeta.FileName)); ok {
		return nil, fmt.Errorf("%s already exists in %s", pkgmeta.FileName, outputDir)
	}
	if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{OutputDir: outputDir}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(templateFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		outName, raw := outputName(entry.Name())
		outPath := filepath.Join(outputDir, outName)
		if ok, _ := afero.Exists(fsys, outPath); ok {
			result.Skipped = append(result.Skipped, outName)
			continue
		}

		// Raw files are copied as-is; .verb.md is rendered later by the
		// readme task.
		content := tmplBytes
		if !raw {
			tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
			if err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
			}
			content = buf.Bytes()
		}

		if err := afero.WriteFile(fsys, outPath, content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
	}

	// Validate the generated package.json against the JSON Schema.
	pkgFile := filepath.Join(outputDir, pkgmeta.FileName)
	if pkgBytes, err := afero.ReadFile(fsys, pkgFile); err == nil {
		valResult, valErr := pkgmeta.Validate(pkgBytes)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate %s: %v", pkgmeta.FileName, valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				result.Warnings = append(result.Warnings, issue.String())
			}
		}
	}

	return result, nil
}
