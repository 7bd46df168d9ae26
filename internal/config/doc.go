// Package config merges the settings a run reads into one key-value store.
//
// Sources are layered, later ones winning at the same key path: built-in
// defaults, the user settings file at ~/.revamp/config.yaml (and REVAMP_*
// environment variables), the project's package metadata, and finally the
// flags given on the command line. Nested keys are addressed with dotted
// paths such as "argv.verbose".
package config
