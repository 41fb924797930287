// Package repodb reads and writes repository database archives and the
// per-pkgbase JSON documents derived from them.
//
// A repository database is a (usually compressed) tar stream holding one
// <name>-<version>/ directory per package with a desc entry and, for files
// databases, a files entry.
package repodb
