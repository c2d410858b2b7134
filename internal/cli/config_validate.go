package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telste/gridview/internal/config"
)

// NewConfigValidateCmd creates the config validate command. It loads the
// effective configuration (file, environment, defaults), runs validation,
// and reports the normalized result.
func NewConfigValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Example: `  # Validate the default config file
  gridview config validate

  # Validate a specific file
  gridview config validate --path ./gridview.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			if validateErr := cfg.Validate(); validateErr != nil {
				return fmt.Errorf("configuration is invalid: %w", validateErr)
			}

			cmd.Printf("Configuration is valid (schema %s)\n", cfg.SchemaVersion)
			cmd.Printf("  selection: %s, page size: %d, item height: %d, overscan: %d\n",
				cfg.Selection.Type, cfg.Pagination.PageSize,
				cfg.VirtualScroll.ItemHeight, cfg.VirtualScroll.Overscan)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "config file location (default ~/.gridview/config.yaml)")

	return cmd
}
