package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brxzee/scalping-bot/internal/aggregation"
	"github.com/Brxzee/scalping-bot/internal/backtest"
	"github.com/Brxzee/scalping-bot/internal/database"
	"github.com/Brxzee/scalping-bot/internal/engine"
	"github.com/Brxzee/scalping-bot/internal/exchange"
	"github.com/Brxzee/scalping-bot/internal/session"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

var (
	backtestSymbol    string
	backtestTimeframe string
	backtestDays      int
	backtestStored    bool
	backtestShowAll   bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay detection over history and simulate fills",
	Long: `Replay setup detection over a historical window, simulate each setup
through the fill model, and print the performance summary.

Setups that never fill within the fill window are excluded from the
statistics, as are trades still open when history runs out.

Examples:
  scalping-bot backtest --symbol BTCUSDT --days 90
  scalping-bot backtest --symbol ETHUSDT --timeframe 15m --days 30
  scalping-bot backtest --symbol BTCUSDT --stored     # Read bars from InfluxDB
  scalping-bot backtest --symbol BTCUSDT --trades     # Print every trade`,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (e.g., BTCUSDT)")
	backtestCmd.Flags().StringVar(&backtestTimeframe, "timeframe", "", "Bar interval (defaults to SCAN_TIMEFRAME_PRIMARY)")
	backtestCmd.Flags().IntVar(&backtestDays, "days", 0, "History window in days (defaults to BACKTEST_DAYS)")
	backtestCmd.Flags().BoolVar(&backtestStored, "stored", false, "Read bars from InfluxDB instead of the exchange")
	backtestCmd.Flags().BoolVar(&backtestShowAll, "trades", false, "Print every simulated trade")
	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment()
	if err != nil {
		return err
	}

	timeframe := cfg.Scan.TimeframePrimary
	if backtestTimeframe != "" {
		timeframe = backtestTimeframe
	}
	days := cfg.Backtest.Days
	if backtestDays > 0 {
		days = backtestDays
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	var bars []models.Bar
	if backtestStored {
		influx := database.NewInfluxClient(&cfg.InfluxDB, log)
		defer influx.Close()
		bars, err = influx.GetBars(ctx, backtestSymbol, timeframe, start, end)
	} else {
		binance := exchange.NewBinanceRESTClient(&cfg.Binance, log)
		bars, err = binance.GetBarsRange(ctx, backtestSymbol, timeframe, start, end)
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars found for %s %s in the last %d days", backtestSymbol, timeframe, days)
	}

	// Higher timeframes are resampled from the primary series so the replay
	// never sees bars the live scanner would not have had.
	htf := engine.HTFSeries{
		H1:    aggregation.Resample(bars, time.Hour),
		H4:    aggregation.Resample(bars, 4*time.Hour),
		Daily: aggregation.Resample(bars, 24*time.Hour),
	}

	clock, err := session.NewClock(&cfg.Strategy.Killzone)
	if err != nil {
		return fmt.Errorf("failed to build session clock: %w", err)
	}

	eng := engine.New(&cfg.Strategy, clock.WindowName, log)
	setups := eng.BuildSetups(bars, backtestSymbol, timeframe, htf)
	log.WithFields(map[string]interface{}{
		"bars":   len(bars),
		"setups": len(setups),
	}).Info("Detection pass completed")

	results, summary := backtest.Run(bars, setups, cfg.Backtest.MaxBarsToFill)

	if backtestShowAll {
		for _, r := range results {
			fmt.Printf("%s  %-7s  %-4s  entry=%.2f exit=%.2f pnl=%+.2f bars=%d\n",
				r.Setup.Timestamp.Format("2006-01-02 15:04"), r.Setup.Direction, r.Outcome,
				r.Setup.EntryMid(), r.ExitPrice, r.PnLPoints, r.BarsHeld)
		}
		fmt.Println()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
