// Package operations converts between repository databases and directories of
// per-pkgbase JSON documents.
package operations
