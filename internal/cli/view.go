package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/telste/gridview/internal/config"
	"github.com/telste/gridview/internal/tui"
)

// NewViewCmd creates the view command: load a dataset and browse it in the
// interactive grid.
func NewViewCmd() *cobra.Command {
	var load loadOptions

	cmd := &cobra.Command{
		Use:   "view <dataset>",
		Short: "Browse a dataset in the interactive grid",
		Args:  cobra.ExactArgs(1),
		Example: `  # Browse a CSV file
  gridview view items.csv

  # Browse a SQLite table
  gridview view stock.db --table products --key sku`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("view requires an interactive terminal; use 'gridview query' for scripted output")
			}

			ds, err := loadDataset(args[0], load)
			if err != nil {
				return err
			}

			logger.Debug().
				Str("source", ds.SourcePath).
				Int("records", len(ds.Records)).
				Int("fields", len(ds.Fields)).
				Msg("dataset loaded")

			model := tui.NewGridModel(cmd.Context(), ds, datasetColumns(ds), config.Global())
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, runErr := p.Run(); runErr != nil {
				return fmt.Errorf("running interactive grid: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&load.Format, "format", "", "dataset format: csv, json, or sqlite (default: inferred from extension)")
	cmd.Flags().StringVar(&load.Table, "table", "", "table name (SQLite datasets)")
	cmd.Flags().StringVar(&load.KeyField, "key", "", "column supplying stable row keys")

	return cmd
}
