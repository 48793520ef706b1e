package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brxzee/scalping-bot/internal/aggregation"
	"github.com/Brxzee/scalping-bot/internal/engine"
	"github.com/Brxzee/scalping-bot/internal/exchange"
	"github.com/Brxzee/scalping-bot/internal/session"
)

var (
	detectSymbol    string
	detectTimeframe string
	detectBars      int
	detectJSON      bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run setup detection once and print the results",
	Long: `Fetch recent bars for a single symbol, run setup detection once, and
print every qualifying setup.

Examples:
  scalping-bot detect --symbol BTCUSDT
  scalping-bot detect --symbol ETHUSDT --timeframe 15m --bars 1000
  scalping-bot detect --symbol BTCUSDT --json`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectSymbol, "symbol", "", "Symbol to scan (e.g., BTCUSDT)")
	detectCmd.Flags().StringVar(&detectTimeframe, "timeframe", "", "Bar interval (defaults to SCAN_TIMEFRAME_PRIMARY)")
	detectCmd.Flags().IntVar(&detectBars, "bars", 0, "Number of bars to fetch (defaults to SCAN_LOOKBACK_BARS)")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print setups as JSON")
	detectCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment()
	if err != nil {
		return err
	}

	timeframe := cfg.Scan.TimeframePrimary
	if detectTimeframe != "" {
		timeframe = detectTimeframe
	}
	limit := cfg.Scan.LookbackBars
	if detectBars > 0 {
		limit = detectBars
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	binance := exchange.NewBinanceRESTClient(&cfg.Binance, log)

	bars, err := binance.GetBars(ctx, detectSymbol, timeframe, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch bars: %w", err)
	}

	var htf engine.HTFSeries
	if h1, err := binance.GetBars(ctx, detectSymbol, cfg.Scan.TimeframeHTF, cfg.Scan.HTFLookbackBars); err != nil {
		log.WithError(err).Warn("Failed to fetch HTF bars")
	} else {
		htf.H1 = h1
		htf.H4 = aggregation.Resample(h1, 4*time.Hour)
	}
	if daily, err := binance.GetBars(ctx, detectSymbol, cfg.Scan.TimeframeDaily, 365); err != nil {
		log.WithError(err).Warn("Failed to fetch daily bars")
	} else {
		htf.Daily = daily
	}

	clock, err := session.NewClock(&cfg.Strategy.Killzone)
	if err != nil {
		return fmt.Errorf("failed to build session clock: %w", err)
	}

	eng := engine.New(&cfg.Strategy, clock.WindowName, log)
	setups := eng.BuildSetups(bars, detectSymbol, timeframe, htf)

	if detectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(setups)
	}

	if len(setups) == 0 {
		fmt.Printf("No setups found for %s %s over %d bars\n", detectSymbol, timeframe, len(bars))
		return nil
	}
	for _, s := range setups {
		fmt.Println(engine.LogLine(s))
	}
	fmt.Printf("\n%d setup(s) found\n", len(setups))
	return nil
}
