// Package config describes the repository management settings and validates
// how repositories, pools and management repositories are laid out on disk.
//
// Per-repository values override the global architecture, pools and
// management repository. Directories serving different roles may never be
// equal or nested inside one another.
package config
