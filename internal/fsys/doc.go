// Package fsys provides the file source and destination used by pipelines.
// Both work on an afero.Fs so the same code drives the real disk and the
// in-memory filesystem used in tests.
package fsys
