package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telste/gridview/internal/config"
)

// NewConfigInitCmd creates the config init command, writing a config file
// populated with the built-in defaults.
func NewConfigInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ~/.gridview/config.yaml
  gridview config init

  # Create a config file at a custom path
  gridview config init --path ./gridview.yaml

  # Overwrite an existing file
  gridview config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				target = config.DefaultConfigPath()
			}

			if !force {
				if _, err := os.Stat(target); err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", target, err)
				}
			}

			if err := config.Default().Write(target); err != nil {
				return err
			}

			cmd.Printf("Configuration initialized at %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&path, "path", "", "config file location (default ~/.gridview/config.yaml)")

	return cmd
}
