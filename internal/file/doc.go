// Package file defines Record, the unit that flows through every pipeline.
// A record carries a path, the base directory its relative path is computed
// from, the raw contents, and an open metadata map stages and hooks use to
// pass information downstream.
package file
