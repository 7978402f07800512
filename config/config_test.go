package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/calculator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.Equal(t, time.Minute, cfg.RateLimitRefill())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Calculator, cfg.Calculator)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  shutdown_timeout: 5s
cache:
  backend: none
calculator:
  front_end_ratio_cap_percent: 31
  back_end_ratio_cap_percent: 43
  max_schedule_months: 480
  cma:
    band_mode: stddev
    bedroom_adjustment: 10000
  closing_cost_presets:
    Travis County, TX:
      - label: Title insurance
        amount: 1500
      - label: Transfer tax
        percent_of_price: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout(), "unset keys keep defaults")
	assert.Equal(t, "none", cfg.Cache.Backend)

	ec := cfg.EngineConfig()
	assert.True(t, decimal.NewFromInt(31).Equal(ec.FrontEndRatioCapPercent))
	assert.True(t, decimal.NewFromInt(43).Equal(ec.BackEndRatioCapPercent))
	assert.Equal(t, 480, ec.MaxScheduleMonths)
	assert.Equal(t, calculator.BandModeStdDev, ec.CMA.BandMode)
	assert.True(t, decimal.NewFromInt(5).Equal(ec.CMA.BandPercent))
	assert.True(t, decimal.NewFromInt(10000).Equal(ec.CMA.BedroomAdjustment))

	presets := ec.ClosingCostPresets["Travis County, TX"]
	require.Len(t, presets, 2)
	assert.Equal(t, "Transfer tax", presets[1].Label)
	assert.Equal(t, "0.5", presets[1].PercentOfPrice.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("REALTY_REDIS_ADDR", "redis:6379")
	t.Setenv("REALTY_SQLITE_PATH", "/var/lib/realty/comparables.db")
	t.Setenv("REALTY_LOG_LEVEL", "DEBUG")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/realty/comparables.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "debug", cfg.Logging.Level)

	adv := cfg.AdvisorSettings()
	assert.Equal(t, "sk-test", adv.APIKey)
	assert.Equal(t, 30*time.Second, adv.Timeout)
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, "ReadTimeout"},
		{"redis without address", func(c *Config) { c.Cache.Backend = "redis" }, "RedisAddr"},
		{"sqlite without path", func(c *Config) { c.Storage.Backend = "sqlite" }, "SQLitePath"},
		{"cap over 100", func(c *Config) { c.Calculator.BackEndRatioCapPercent = 120 }, "BackEndRatioCapPercent"},
		{"band mode", func(c *Config) { c.Calculator.CMA.BandMode = "iqr" }, "BandMode"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"preset label", func(c *Config) {
			c.Calculator.ClosingCostPresets["austin"] = []ClosingCostPreset{{Amount: 10}}
		}, "Label"},
		{"preset labels collide", func(c *Config) {
			c.Calculator.ClosingCostPresets["austin"] = []ClosingCostPreset{
				{Label: "Title fee", Amount: 1000},
				{Label: "title fee", Amount: 500},
			}
		}, "ClosingCostPresets"},
		{"preset locations collide", func(c *Config) {
			c.Calculator.ClosingCostPresets["Austin"] = []ClosingCostPreset{{Label: "Title fee", Amount: 1000}}
			c.Calculator.ClosingCostPresets["austin"] = []ClosingCostPreset{{Label: "Courier", Amount: 7}}
		}, "ClosingCostPresets"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
