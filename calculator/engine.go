// Package calculator implements the real-estate financial calculators:
// amortization, prequalification, investment analysis, seller net sheet
// and quick CMA.
//
// Every calculation is a pure function of its input record and the
// Engine's Config. Engines are immutable and safe for concurrent use.
package calculator

import (
	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// ratio divides num by den, reporting not applicable for a zero
// denominator.
func ratio(num, den decimal.Decimal) domain.Ratio {
	if den.IsZero() {
		return domain.NotApplicable()
	}
	return domain.RatioOf(num.DivRound(den, ratioPlaces))
}
