// Package config loads the service configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"realty-calc/calculator"
	"realty-calc/service"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Cache      CacheConfig      `yaml:"cache"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Advisor    AdvisorConfig    `yaml:"advisor"`
}

type ServerConfig struct {
	Port            int    `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     string `yaml:"read_timeout" validate:"duration"`
	WriteTimeout    string `yaml:"write_timeout" validate:"duration"`
	IdleTimeout     string `yaml:"idle_timeout" validate:"duration"`
	ShutdownTimeout string `yaml:"shutdown_timeout" validate:"duration"`
}

type RateLimitConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Capacity int    `yaml:"capacity" validate:"min=1"`
	Refill   string `yaml:"refill" validate:"duration"`
}

type CacheConfig struct {
	Backend   string `yaml:"backend" validate:"oneof=none memory redis"`
	RedisAddr string `yaml:"redis_addr" validate:"required_if=Backend redis"`
	TTL       string `yaml:"ttl" validate:"duration"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=memory sqlite"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type CalculatorConfig struct {
	FrontEndRatioCapPercent float64                        `yaml:"front_end_ratio_cap_percent" validate:"gt=0,lte=100"`
	BackEndRatioCapPercent  float64                        `yaml:"back_end_ratio_cap_percent" validate:"gt=0,lte=100"`
	MaxScheduleMonths       int                            `yaml:"max_schedule_months" validate:"min=1,max=600"`
	MaxProjectionYears      int                            `yaml:"max_projection_years" validate:"min=1,max=100"`
	CMA                     CMAConfig                      `yaml:"cma"`
	ClosingCostPresets      map[string][]ClosingCostPreset `yaml:"closing_cost_presets" validate:"closing_cost_presets,dive,keys,required,endkeys,dive"`
}

type CMAConfig struct {
	BandPercent        float64 `yaml:"band_percent" validate:"gte=0,lte=100"`
	BandMode           string  `yaml:"band_mode" validate:"oneof=fixed stddev"`
	DistanceScaleMiles float64 `yaml:"distance_scale_miles" validate:"gte=0"`
	RecencyScaleMonths float64 `yaml:"recency_scale_months" validate:"gte=0"`
	BedroomAdjustment  float64 `yaml:"bedroom_adjustment"`
	BathroomAdjustment float64 `yaml:"bathroom_adjustment"`
}

type ClosingCostPreset struct {
	Label          string  `yaml:"label" validate:"required"`
	Amount         float64 `yaml:"amount" validate:"gte=0"`
	PercentOfPrice float64 `yaml:"percent_of_price" validate:"gte=0,lte=100"`
}

type AdvisorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url" validate:"omitempty,url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens" validate:"gte=0"`
	Timeout   string `yaml:"timeout" validate:"duration"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "10s",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Capacity: 60,
			Refill:   "1m",
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     "10m",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Calculator: CalculatorConfig{
			FrontEndRatioCapPercent: 28,
			BackEndRatioCapPercent:  36,
			MaxScheduleMonths:       calculator.DefaultMaxScheduleMonths,
			MaxProjectionYears:      calculator.DefaultMaxProjectionYears,
			CMA: CMAConfig{
				BandPercent:        5,
				BandMode:           calculator.BandModeFixed,
				DistanceScaleMiles: 1,
				RecencyScaleMonths: 6,
			},
			ClosingCostPresets: map[string][]ClosingCostPreset{},
		},
		Advisor: AdvisorConfig{
			Enabled:   true,
			BaseURL:   service.DefaultAdvisorURL,
			Model:     service.DefaultAdvisorModel,
			MaxTokens: 300,
			Timeout:   "30s",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// leaves the defaults in place. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if addr := os.Getenv("REALTY_REDIS_ADDR"); addr != "" {
		c.Cache.Backend = "redis"
		c.Cache.RedisAddr = addr
	}
	if path := os.Getenv("REALTY_SQLITE_PATH"); path != "" {
		c.Storage.Backend = "sqlite"
		c.Storage.SQLitePath = path
	}
	if level := os.Getenv("REALTY_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Advisor.APIKey = key
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	_ = v.RegisterValidation("closing_cost_presets", func(fl validator.FieldLevel) bool {
		presets, ok := fl.Field().Interface().(map[string][]ClosingCostPreset)
		return ok && calculator.CheckClosingCostPresets(enginePresets(presets)) == nil
	})
	return v
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Durations are validated by Load, so parse errors fall back to zero.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func (c *Config) ReadTimeout() time.Duration     { return mustDuration(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return mustDuration(c.Server.WriteTimeout) }
func (c *Config) IdleTimeout() time.Duration     { return mustDuration(c.Server.IdleTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return mustDuration(c.Server.ShutdownTimeout) }
func (c *Config) RateLimitRefill() time.Duration { return mustDuration(c.RateLimit.Refill) }
func (c *Config) CacheTTL() time.Duration        { return mustDuration(c.Cache.TTL) }

// EngineConfig builds the explicit calculator configuration.
func (c *Config) EngineConfig() calculator.Config {
	cc := c.Calculator
	return calculator.Config{
		FrontEndRatioCapPercent: decimal.NewFromFloat(cc.FrontEndRatioCapPercent),
		BackEndRatioCapPercent:  decimal.NewFromFloat(cc.BackEndRatioCapPercent),
		MaxScheduleMonths:       cc.MaxScheduleMonths,
		MaxProjectionYears:      cc.MaxProjectionYears,
		CMA: calculator.CMAConfig{
			BandPercent:        decimal.NewFromFloat(cc.CMA.BandPercent),
			BandMode:           cc.CMA.BandMode,
			DistanceScaleMiles: decimal.NewFromFloat(cc.CMA.DistanceScaleMiles),
			RecencyScaleMonths: decimal.NewFromFloat(cc.CMA.RecencyScaleMonths),
			BedroomAdjustment:  decimal.NewFromFloat(cc.CMA.BedroomAdjustment),
			BathroomAdjustment: decimal.NewFromFloat(cc.CMA.BathroomAdjustment),
		},
		ClosingCostPresets: enginePresets(cc.ClosingCostPresets),
	}
}

func enginePresets(in map[string][]ClosingCostPreset) map[string][]calculator.ClosingCostPreset {
	presets := make(map[string][]calculator.ClosingCostPreset, len(in))
	for loc, items := range in {
		out := make([]calculator.ClosingCostPreset, 0, len(items))
		for _, p := range items {
			out = append(out, calculator.ClosingCostPreset{
				Label:          p.Label,
				Amount:         decimal.NewFromFloat(p.Amount),
				PercentOfPrice: decimal.NewFromFloat(p.PercentOfPrice),
			})
		}
		presets[loc] = out
	}
	return presets
}

func (c *Config) AdvisorSettings() service.AdvisorConfig {
	return service.AdvisorConfig{
		Enabled:   c.Advisor.Enabled,
		APIKey:    c.Advisor.APIKey,
		BaseURL:   c.Advisor.BaseURL,
		Model:     c.Advisor.Model,
		MaxTokens: c.Advisor.MaxTokens,
		Timeout:   mustDuration(c.Advisor.Timeout),
	}
}
