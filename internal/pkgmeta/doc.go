// Package pkgmeta reads a project's package.json. It loads the raw metadata
// merged into the run configuration, offers a typed view of the fields the
// built-in plugins use (name, version, author, license, repository), and
// validates the document against an embedded JSON Schema.
package pkgmeta
