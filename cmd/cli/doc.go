// Package cli constructs the repo-management command-line interface, wiring
// the Cobra command hierarchy, the layered settings loader, and structured
// logging. The db2json and json2db binaries reuse it through ExecuteSubcommand.
package cli
