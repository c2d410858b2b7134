// Package cli implements the gridview command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the gridview CLI.
// It wires up configuration loading, logging, and the view/query/config
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *setupResult

	cmd := &cobra.Command{
		Use:     "gridview",
		Short:   "Interactive data grid for the terminal",
		Long:    "gridview: browse, filter, sort, and select rows from CSV, JSON, and SQLite datasets",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			result, err := setupLogging(cmd)
			if err != nil {
				return err
			}
			logResult = result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file path (default ~/.gridview/config.yaml)")
	cmd.AddCommand(NewViewCmd(), NewQueryCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Browse a CSV file interactively
  gridview view items.csv

  # Browse a SQLite table with a chosen key column
  gridview view stock.db --table products --key sku

  # Headless query: filter, sort, and print one page as JSON
  gridview query items.csv --filter "price:gt:10" --sort price:desc --page 1 --page-size 20 --output json

  # Search across all columns, print a table
  gridview query items.csv --search widget

  # Initialize configuration
  gridview config init

  # Validate an existing configuration file
  gridview config validate`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
