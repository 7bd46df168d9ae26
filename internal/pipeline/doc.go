// Package pipeline composes a file source, an ordered chain of transform
// stages, lifecycle hooks and a destination into one runnable unit.
//
// Records are processed strictly one at a time: a record is pushed through
// every downstream stage, and written, before the source yields the next
// one. Stages may drop records (by not emitting) or fan out (by emitting
// more than once); stages implementing Flusher get a final call after the
// last record. The first error stops the run.
package pipeline
