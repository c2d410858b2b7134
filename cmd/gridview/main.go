// Command gridview browses, filters, sorts, and selects rows from CSV,
// JSON, and SQLite datasets, either interactively or as a headless query.
package main

import (
	"os"

	"github.com/telste/gridview/internal/cli"
	"github.com/telste/gridview/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the result to a process exit code.
// Cobra has already printed the error by the time Execute returns.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
