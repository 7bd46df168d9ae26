// Package app is the composition root of a revamp run. An App owns the task
// graph, the hook registry, the configuration store and the file system
// resolvers, and exposes the operations task bodies are written against.
package app
