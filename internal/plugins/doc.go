// Package plugins holds the built-in transform stages used by the default
// recipe. Each constructor returns a pipeline.Stage; stages that only
// understand certain files pass everything else through untouched.
package plugins
