// Package cli defines the Cobra command tree for the revamp CLI. The root
// command runs a task from the built-in recipe; the other files each
// register one subcommand. Commands only parse flags and format output and
// delegate the work to internal packages.
package cli
