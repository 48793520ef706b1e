// Package commands defines the CLI surface.
package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/logger"
)

var (
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scalping-bot",
	Short: "Price-action trade setup scanner",
	Long: `A price-action setup scanner built around rejection blocks.

It detects dominant-wick rejection candles at key structural levels
(swing points, fair value gaps, order blocks, liquidity sweeps), scores
them by confluence, and emits risk-capped trade setups with entry zone,
stop, and target. Setups can be scanned live, dumped once, or replayed
through the backtest simulator.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
}

// loadEnvironment loads .env plus the environment config and builds the
// logger, honoring the --log-level override.
func loadEnvironment() (*config.Config, *logrus.Logger, error) {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}
