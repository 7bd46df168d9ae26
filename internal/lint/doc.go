// Package lint runs an external JavaScript linter over a project's sources.
// Dispatch selects a Runner by tool name; Command executes the tool binary,
// preferring a project-local node_modules/.bin install over PATH.
package lint
