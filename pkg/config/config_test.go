package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Strategy.Structure.SwingLookback)
	assert.Equal(t, 14, cfg.Strategy.Structure.ATRPeriod)
	assert.Equal(t, 2.0, cfg.Strategy.Rejection.WickToBodyRatioMin)
	assert.Equal(t, 3, cfg.Strategy.Rejection.ReversalConfirmationBars)
	assert.Equal(t, 0.5, cfg.Strategy.Wick.BodyToRangeMax)
	assert.Equal(t, 10, cfg.Strategy.Wick.RespectBarsLookback)

	assert.Equal(t, "02:00", cfg.Strategy.Killzone.LondonStart)
	assert.Equal(t, "10:00", cfg.Strategy.Killzone.NewYorkEnd)
	assert.Equal(t, 30, cfg.Strategy.Killzone.ExtendMinutesAfter)
	assert.Equal(t, "America/New_York", cfg.Strategy.Killzone.Timezone)

	assert.True(t, cfg.Strategy.HTF.Enabled)
	assert.True(t, cfg.Strategy.HTF.TreatNoneAsAligned)

	assert.Equal(t, 4, cfg.Strategy.Confluence.MinScore)
	assert.Equal(t, 2, cfg.Strategy.Confluence.Weights.Killzone)
	assert.Equal(t, 2, cfg.Strategy.Confluence.Weights.WickRespect)
	assert.Equal(t, 2, cfg.Strategy.Confluence.Weights.HTFAligned)
	assert.Equal(t, 1, cfg.Strategy.Confluence.Weights.RejectionBlock)

	assert.True(t, cfg.Strategy.Risk.RequireReversalConfirmed)
	assert.Equal(t, 0.5, cfg.Strategy.Risk.EntryFibInWick)
	assert.Equal(t, 5.0, cfg.Strategy.Risk.TargetRR)

	assert.Equal(t, 10, cfg.Backtest.MaxBarsToFill)
	assert.Equal(t, "5m", cfg.Scan.TimeframePrimary)
}

func TestRiskClassDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Strategy.Risk.NQ.MinRiskPoints)
	assert.Equal(t, 15.0, cfg.Strategy.Risk.NQ.MaxRiskPoints)
	assert.Equal(t, 5.0, cfg.Strategy.Risk.ES.MinRiskPoints)
	assert.Equal(t, 8.0, cfg.Strategy.Risk.ES.MaxRiskPoints)
}

func TestClassFor(t *testing.T) {
	r := &RiskConfig{
		NQ: RiskClassConfig{MinRiskPoints: 10, MaxRiskPoints: 15},
		ES: RiskClassConfig{MinRiskPoints: 5, MaxRiskPoints: 8},
	}

	assert.Equal(t, r.NQ, r.ClassFor("NQ1!"))
	assert.Equal(t, r.NQ, r.ClassFor("nq=f"))
	assert.Equal(t, r.ES, r.ClassFor("ES1!"))
	assert.Equal(t, r.ES, r.ClassFor("BTCUSDT"))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.API.Port = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load()
	cfg.Scan.Symbols = nil
	assert.Error(t, cfg.Validate())

	cfg, _ = Load()
	cfg.Strategy.Structure.SwingLookback = 0
	assert.Error(t, cfg.Validate())
}

func TestGetAddrs(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetAPIAddr())
}
