package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brxzee/scalping-bot/internal/database"
	"github.com/Brxzee/scalping-bot/internal/exchange"
)

var (
	backfillSymbol   string
	backfillInterval string
	backfillDays     int
	backfillAll      bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill historical market data into InfluxDB",
	Long: `Backfill historical bars from Binance into InfluxDB so that backtests
and stored-history scans can run without hitting the exchange.

Examples:
  # Backfill 90 days of 5-minute data for BTCUSDT
  scalping-bot backfill --symbol BTCUSDT --interval 5m --days 90

  # Backfill 365 days of daily data for the whole scan universe
  scalping-bot backfill --all --interval 1d --days 365`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillSymbol, "symbol", "", "Symbol to backfill (e.g., BTCUSDT)")
	backfillCmd.Flags().StringVar(&backfillInterval, "interval", "5m", "Kline interval (1m, 5m, 15m, 1h, 4h, 1d, ...)")
	backfillCmd.Flags().IntVar(&backfillDays, "days", 30, "Number of days to backfill")
	backfillCmd.Flags().BoolVar(&backfillAll, "all", false, "Backfill every symbol in the scan universe")

	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if !backfillAll && backfillSymbol == "" {
		return fmt.Errorf("either --symbol or --all must be specified")
	}
	if backfillAll && backfillSymbol != "" {
		return fmt.Errorf("cannot specify both --symbol and --all")
	}

	validIntervals := []string{"1m", "3m", "5m", "15m", "30m", "1h", "2h", "4h", "6h", "8h", "12h", "1d", "3d", "1w"}
	valid := false
	for _, v := range validIntervals {
		if v == backfillInterval {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid interval: %s. Valid intervals: %s", backfillInterval, strings.Join(validIntervals, ", "))
	}

	cfg, log, err := loadEnvironment()
	if err != nil {
		return err
	}

	symbols := []string{backfillSymbol}
	if backfillAll {
		symbols = cfg.Scan.Symbols
	}

	binance := exchange.NewBinanceRESTClient(&cfg.Binance, log)
	influx := database.NewInfluxClient(&cfg.InfluxDB, log)
	defer influx.Close()

	ctx := context.Background()
	if err := influx.Health(ctx); err != nil {
		return fmt.Errorf("influxdb not reachable: %w", err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -backfillDays)

	for _, symbol := range symbols {
		symLog := log.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"interval": backfillInterval,
			"days":     backfillDays,
		})
		symLog.Info("Backfilling")

		bars, err := binance.GetBarsRange(ctx, symbol, backfillInterval, start, end)
		if err != nil {
			symLog.WithError(err).Error("Failed to fetch bars")
			continue
		}
		if err := influx.WriteBars(ctx, bars, backfillInterval); err != nil {
			symLog.WithError(err).Error("Failed to write bars")
			continue
		}
		symLog.WithField("bars", len(bars)).Info("Backfill completed")
	}
	return nil
}
