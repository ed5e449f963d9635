package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/config"
)

var (
	flagConfigFormat   string
	flagConfigDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective Breakout config",
	Long: `Print the Breakout config new games would use: the file found by
--config or the usual search path, with the --difficulty preset applied.
The output is a valid config file to start customizing from.

Examples:
  retrohub config > ~/.retrohub/configs/breakout.yaml
  retrohub config --format toml --difficulty hard
  retrohub config --defaults`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigFormat, "format", "yaml", "Output format: yaml or toml")
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults file as shipped")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigDefaults {
		_, err := os.Stdout.Write(config.GetDefaultYAML("breakout"))
		return err
	}

	cfg, err := config.LoadBreakout(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyBreakoutPreset(&cfg, preset)

	if err := config.Encode(os.Stdout, cfg, flagConfigFormat); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
