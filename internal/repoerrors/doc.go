// Package repoerrors defines the error kinds reported by the repository
// management commands. Every kind matches ErrRepoManagement with errors.Is so
// callers can tell tool failures apart from unexpected runtime errors.
package repoerrors
