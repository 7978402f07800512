package calculator

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	BandModeFixed  = "fixed"
	BandModeStdDev = "stddev"

	DefaultMaxScheduleMonths  = 360
	DefaultMaxProjectionYears = 30
)

// Config is the explicit configuration every calculation runs against.
// Nothing in this package reads ambient state.
type Config struct {
	FrontEndRatioCapPercent decimal.Decimal
	BackEndRatioCapPercent  decimal.Decimal
	MaxScheduleMonths       int
	MaxProjectionYears      int
	CMA                     CMAConfig

	// ClosingCostPresets maps a location to its default seller closing
	// costs. Keys are matched case-insensitively; keys that collide are
	// combined in sorted key order.
	ClosingCostPresets map[string][]ClosingCostPreset
}

type CMAConfig struct {
	BandPercent        decimal.Decimal
	BandMode           string
	DistanceScaleMiles decimal.Decimal
	RecencyScaleMonths decimal.Decimal
	BedroomAdjustment  decimal.Decimal
	BathroomAdjustment decimal.Decimal
}

// ClosingCostPreset is a default line item. Its amount is Amount plus
// PercentOfPrice of the sale price.
type ClosingCostPreset struct {
	Label          string
	Amount         decimal.Decimal
	PercentOfPrice decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		FrontEndRatioCapPercent: decimal.NewFromInt(28),
		BackEndRatioCapPercent:  decimal.NewFromInt(36),
		MaxScheduleMonths:       DefaultMaxScheduleMonths,
		MaxProjectionYears:      DefaultMaxProjectionYears,
		CMA: CMAConfig{
			BandPercent:        decimal.NewFromInt(5),
			BandMode:           BandModeFixed,
			DistanceScaleMiles: decimal.NewFromInt(1),
			RecencyScaleMonths: decimal.NewFromInt(6),
		},
		ClosingCostPresets: map[string][]ClosingCostPreset{},
	}
}

// withDefaults fills zero-valued settings from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if !c.FrontEndRatioCapPercent.IsPositive() {
		c.FrontEndRatioCapPercent = d.FrontEndRatioCapPercent
	}
	if !c.BackEndRatioCapPercent.IsPositive() {
		c.BackEndRatioCapPercent = d.BackEndRatioCapPercent
	}
	if c.MaxScheduleMonths <= 0 {
		c.MaxScheduleMonths = d.MaxScheduleMonths
	}
	if c.MaxProjectionYears <= 0 {
		c.MaxProjectionYears = d.MaxProjectionYears
	}
	if c.CMA.BandPercent.IsNegative() {
		c.CMA.BandPercent = d.CMA.BandPercent
	}
	if c.CMA.BandMode == "" {
		c.CMA.BandMode = d.CMA.BandMode
	}

	presets := make(map[string][]ClosingCostPreset, len(c.ClosingCostPresets))
	for _, loc := range slices.Sorted(maps.Keys(c.ClosingCostPresets)) {
		key := normalizeKey(loc)
		presets[key] = append(slices.Clip(presets[key]), c.ClosingCostPresets[loc]...)
	}
	c.ClosingCostPresets = presets
	return c
}

// CheckClosingCostPresets rejects preset tables whose locations, or whose
// labels within one location, collide once case and surrounding space
// are ignored.
func CheckClosingCostPresets(presets map[string][]ClosingCostPreset) error {
	locations := make(map[string]string, len(presets))
	for _, loc := range slices.Sorted(maps.Keys(presets)) {
		field := "closing_cost_presets." + loc
		key := normalizeKey(loc)
		if prev, dup := locations[key]; dup {
			return invalid(field, "duplicates location %q", prev)
		}
		locations[key] = loc

		labels := make(map[string]bool, len(presets[loc]))
		for _, p := range presets[loc] {
			label := normalizeKey(p.Label)
			if label == "" {
				continue
			}
			if labels[label] {
				return invalid(field, "repeats the label %q", p.Label)
			}
			labels[label] = true
		}
	}
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
