// Package scaffold generates a new node project from embedded templates. It
// powers the "revamp init" command: package.json, index.js, test.js, a
// .verb.md readme template and a .gitignore, with the generated
// package.json checked against the package schema.
package scaffold
