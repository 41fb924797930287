package main

import (
	"fmt"
	"os"

	"github.com/Cyberx9901/arch-repo-management/cmd/cli"
)

const (
	subcommandNameConstant    = "db2json"
	exitErrorTemplateConstant = "%v\n"
)

// main runs the db2json subcommand of repo-management as a standalone binary.
func main() {
	if executionError := cli.ExecuteSubcommand(subcommandNameConstant, os.Args[1:]); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
