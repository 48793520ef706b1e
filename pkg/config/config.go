package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config represents the application configuration
type Config struct {
	Logging  LoggingConfig  `env:", prefix=LOG_"`
	Binance  BinanceConfig  `env:", prefix=BINANCE_"`
	InfluxDB InfluxConfig   `env:", prefix=INFLUXDB_"`
	Redis    RedisConfig    `env:", prefix=REDIS_"`
	NATS     NATSConfig     `env:", prefix=NATS_"`
	Telegram TelegramConfig `env:", prefix=TELEGRAM_"`
	API      APIConfig      `env:", prefix=API_"`
	Scan     ScanConfig     `env:", prefix=SCAN_"`
	Backtest BacktestConfig `env:", prefix=BACKTEST_"`
	Strategy StrategyConfig `env:", prefix=STRATEGY_"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LEVEL, default=info"`
	Format string `env:"FORMAT, default=text"`
	Output string `env:"OUTPUT, default=stdout"`
}

// BinanceConfig holds Binance REST API configuration
type BinanceConfig struct {
	APIURL    string        `env:"API_URL, default=https://api.binance.com"`
	RateLimit time.Duration `env:"RATE_LIMIT, default=100ms"`
	Timeout   time.Duration `env:"TIMEOUT, default=30s"`
}

// InfluxConfig holds InfluxDB configuration
type InfluxConfig struct {
	URL     string        `env:"URL, default=http://localhost:8086"`
	Token   string        `env:"TOKEN"`
	Org     string        `env:"ORG, default=trading-org"`
	Bucket  string        `env:"BUCKET, default=trading"`
	Timeout time.Duration `env:"TIMEOUT, default=10s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string        `env:"HOST, default=localhost"`
	Port         int           `env:"PORT, default=6379"`
	Password     string        `env:"PASSWORD"`
	DB           int           `env:"DB, default=0"`
	PoolSize     int           `env:"POOL_SIZE, default=10"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT, default=5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=3s"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL           string        `env:"URL, default=nats://localhost:4222"`
	MaxReconnect  int           `env:"MAX_RECONNECT, default=10"`
	ReconnectWait time.Duration `env:"RECONNECT_WAIT, default=2s"`
}

// TelegramConfig holds Telegram alerting configuration
type TelegramConfig struct {
	Enabled  bool          `env:"ENABLED, default=false"`
	BotToken string        `env:"BOT_TOKEN"`
	ChatID   string        `env:"CHAT_ID"`
	Timeout  time.Duration `env:"TIMEOUT, default=10s"`
}

// APIConfig holds the HTTP API server configuration
type APIConfig struct {
	Enabled      bool          `env:"ENABLED, default=true"`
	Host         string        `env:"HOST, default=0.0.0.0"`
	Port         int           `env:"PORT, default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=30s"`
}

// ScanConfig holds the live scanner configuration
type ScanConfig struct {
	Symbols           []string      `env:"SYMBOLS, default=BTCUSDT,ETHUSDT"`
	TimeframePrimary  string        `env:"TIMEFRAME_PRIMARY, default=5m"`
	TimeframeHTF      string        `env:"TIMEFRAME_HTF, default=1h"`
	TimeframeDaily    string        `env:"TIMEFRAME_DAILY, default=1d"`
	LookbackBars      int           `env:"LOOKBACK_BARS, default=500"`
	HTFLookbackBars   int           `env:"HTF_LOOKBACK_BARS, default=500"`
	PollInterval      time.Duration `env:"POLL_INTERVAL, default=1m"`
	DedupTTL          time.Duration `env:"DEDUP_TTL, default=24h"`
	MinBarsForScan    int           `env:"MIN_BARS_FOR_SCAN, default=100"`
	UseStoredHistory  bool          `env:"USE_STORED_HISTORY, default=false"`
}

// BacktestConfig holds backtest replay configuration
type BacktestConfig struct {
	Days          int `env:"DAYS, default=90"`
	MaxBarsToFill int `env:"MAX_BARS_TO_FILL, default=10"`
}

// StrategyConfig groups every detection and scoring parameter.
type StrategyConfig struct {
	Structure  StructureConfig  `env:", prefix=STRUCTURE_"`
	Rejection  RejectionConfig  `env:", prefix=REJECTION_"`
	Wick       WickConfig       `env:", prefix=WICK_"`
	Killzone   KillzoneConfig   `env:", prefix=KILLZONE_"`
	HTF        HTFConfig        `env:", prefix=HTF_"`
	Confluence ConfluenceConfig `env:", prefix=CONFLUENCE_"`
	Risk       RiskConfig       `env:", prefix=RISK_"`
}

// StructureConfig holds swing/ATR/FVG/order-block/sweep parameters
type StructureConfig struct {
	SwingLookback              int     `env:"SWING_LOOKBACK, default=5"`
	ATRPeriod                  int     `env:"ATR_PERIOD, default=14"`
	OrderBlockDisplacementBars int     `env:"ORDER_BLOCK_DISPLACEMENT_BARS, default=2"`
	OrderBlockBodyATRMult      float64 `env:"ORDER_BLOCK_BODY_ATR_MULT, default=0.5"`
	SweepThresholdPct          float64 `env:"SWEEP_THRESHOLD_PCT, default=0.02"`
}

// RejectionConfig holds rejection-block detector parameters
type RejectionConfig struct {
	WickToBodyRatioMin       float64 `env:"WICK_TO_BODY_RATIO_MIN, default=2.0"`
	ReversalConfirmationBars int     `env:"REVERSAL_CONFIRMATION_BARS, default=3"`
	KeyLevelProximityPct     float64 `env:"KEY_LEVEL_PROXIMITY_PCT, default=0.001"`
	VolumeAboveAvgMult       float64 `env:"VOLUME_ABOVE_AVG_MULT, default=1.0"`
}

// WickConfig holds wick-theory detector parameters
type WickConfig struct {
	WickToBodyRatioMin  float64 `env:"WICK_TO_BODY_RATIO_MIN, default=2.0"`
	BodyToRangeMax      float64 `env:"BODY_TO_RANGE_MAX, default=0.5"`
	ATRMinMult          float64 `env:"ATR_MIN_MULT, default=0.3"`
	RespectBarsLookback int     `env:"RESPECT_BARS_LOOKBACK, default=10"`
}

// KillzoneConfig holds session-window parameters. Times are HH:MM in the
// configured timezone.
type KillzoneConfig struct {
	LondonStart        string `env:"LONDON_START, default=02:00"`
	LondonEnd          string `env:"LONDON_END, default=05:00"`
	NewYorkStart       string `env:"NEWYORK_START, default=07:00"`
	NewYorkEnd         string `env:"NEWYORK_END, default=10:00"`
	ExtendMinutesAfter int    `env:"EXTEND_MINUTES_AFTER, default=30"`
	Timezone           string `env:"TIMEZONE, default=America/New_York"`
}

// HTFConfig holds higher-timeframe bias parameters
type HTFConfig struct {
	Enabled            bool `env:"ENABLED, default=true"`
	LookbackBars       int  `env:"LOOKBACK_BARS, default=50"`
	Require1H          bool `env:"REQUIRE_1H, default=true"`
	Require4H          bool `env:"REQUIRE_4H, default=true"`
	RequireDaily       bool `env:"REQUIRE_DAILY, default=true"`
	TreatNoneAsAligned bool `env:"TREAT_NONE_AS_ALIGNED, default=true"`
}

// ConfluenceConfig holds scoring weights and the alert threshold
type ConfluenceConfig struct {
	MinScore int           `env:"MIN_SCORE, default=4"`
	Weights  WeightsConfig `env:", prefix=WEIGHT_"`
}

// WeightsConfig holds the additive score weight per confluence tag
type WeightsConfig struct {
	RejectionBlock int `env:"REJECTION_BLOCK, default=1"`
	Killzone       int `env:"KILLZONE, default=2"`
	WickRespect    int `env:"WICK_RESPECT, default=2"`
	OrderBlock     int `env:"ORDER_BLOCK, default=1"`
	FVG            int `env:"FVG, default=1"`
	LiquiditySweep int `env:"LIQUIDITY_SWEEP, default=1"`
	SwingLevel     int `env:"SWING_LEVEL, default=1"`
	HTFAligned     int `env:"HTF_ALIGNED, default=2"`
}

// RiskClassConfig holds the per-symbol-class point constants used to build
// entry zones and stops.
type RiskClassConfig struct {
	EntryTolerancePoints    float64 `env:"ENTRY_TOLERANCE_POINTS"`
	StopBufferPoints        float64 `env:"STOP_BUFFER_POINTS"`
	VolumeBufferExtraPoints float64 `env:"VOLUME_BUFFER_EXTRA_POINTS"`
	MinRiskPoints           float64 `env:"MIN_RISK_POINTS"`
	MaxRiskPoints           float64 `env:"MAX_RISK_POINTS"`
}

// RiskConfig holds entry/stop/target construction parameters
type RiskConfig struct {
	RequireReversalConfirmed bool    `env:"REQUIRE_REVERSAL_CONFIRMED, default=true"`
	EntryFibInWick           float64 `env:"ENTRY_FIB_IN_WICK, default=0.5"`
	TargetRR                 float64 `env:"TARGET_RR, default=5"`
	VolumeAboveAvgMult       float64 `env:"VOLUME_ABOVE_AVG_MULT, default=1.2"`

	NQ RiskClassConfig `env:", prefix=NQ_"`
	ES RiskClassConfig `env:", prefix=ES_"`
}

// ClassFor picks the risk class for a symbol. NQ-style symbols use the
// wide-point class; everything else uses the ES-style defaults.
func (r *RiskConfig) ClassFor(symbol string) RiskClassConfig {
	if strings.Contains(strings.ToUpper(symbol), "NQ") {
		return r.NQ
	}
	return r.ES
}

// Load loads configuration from environment variables using go-envconfig
func Load() (*Config, error) {
	ctx := context.Background()
	var cfg Config

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.applyRiskDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyRiskDefaults fills zero-valued risk classes with the built-in point
// constants. envconfig has no per-nested-prefix defaults for reused structs.
func (c *Config) applyRiskDefaults() {
	if c.Strategy.Risk.NQ == (RiskClassConfig{}) {
		c.Strategy.Risk.NQ = RiskClassConfig{
			EntryTolerancePoints:    2,
			StopBufferPoints:        2,
			VolumeBufferExtraPoints: 2,
			MinRiskPoints:           10,
			MaxRiskPoints:           15,
		}
	}
	if c.Strategy.Risk.ES == (RiskClassConfig{}) {
		c.Strategy.Risk.ES = RiskClassConfig{
			EntryTolerancePoints:    1,
			StopBufferPoints:        1,
			VolumeBufferExtraPoints: 1,
			MinRiskPoints:           5,
			MaxRiskPoints:           8,
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}
	if len(c.Scan.Symbols) == 0 {
		return fmt.Errorf("at least one scan symbol is required")
	}
	if c.Strategy.Structure.SwingLookback < 1 {
		return fmt.Errorf("swing lookback must be >= 1, got %d", c.Strategy.Structure.SwingLookback)
	}
	if c.Strategy.Structure.ATRPeriod < 1 {
		return fmt.Errorf("ATR period must be >= 1, got %d", c.Strategy.Structure.ATRPeriod)
	}
	if c.Strategy.Risk.EntryFibInWick < 0 || c.Strategy.Risk.EntryFibInWick > 1 {
		return fmt.Errorf("entry fib must be in [0,1], got %f", c.Strategy.Risk.EntryFibInWick)
	}
	if c.Strategy.Risk.TargetRR <= 0 {
		return fmt.Errorf("target RR must be positive, got %f", c.Strategy.Risk.TargetRR)
	}
	for _, class := range []RiskClassConfig{c.Strategy.Risk.NQ, c.Strategy.Risk.ES} {
		if class.MinRiskPoints > class.MaxRiskPoints {
			return fmt.Errorf("risk class min %f exceeds max %f", class.MinRiskPoints, class.MaxRiskPoints)
		}
	}
	return nil
}

// GetRedisAddr returns Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GetAPIAddr returns the HTTP API listen address
func (c *Config) GetAPIAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
