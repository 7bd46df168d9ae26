// Package platform smooths over operating-system differences for the
// file writer, such as permission bits that Windows does not support.
package platform
