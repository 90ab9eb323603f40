package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/colorfall/internal/config"
)

var flagShowDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration that 'play' and 'auto' would use, after the
config file search and --preset are applied.

Config search order:
  1. --config path
  2. ~/.colorfall/config.yaml
  3. ./configs/colorfall.yaml
  4. built-in defaults

Examples:
  colorfall config
  colorfall config --preset hard
  colorfall config --default > ~/.colorfall/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagShowDefault, "default", false, "Print the built-in default config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagShowDefault {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
