package calculator

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

const (
	weightPlaces = 12
	daysPerMonth = 30.4375
)

// EstimateValue values the subject from the weighted average price per
// square foot of the comparables. A comparable weighs
// 1 / (1 + distance/scale + age/scale) using whichever factors it
// supplies, so comparables without factors weigh equally.
//
// The band is a fixed percentage of the estimate, or with BandModeStdDev
// the sample standard deviation of comparable price per square foot
// applied to the subject's size.
func (e *Engine) EstimateValue(in domain.CMAInput) (domain.CMAResult, error) {
	if err := validateCMA(in); err != nil {
		return domain.CMAResult{}, err
	}

	cfg := e.cfg.CMA
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = latestSale(in.Comparables)
	}

	comps := make([]domain.ComparableResult, 0, len(in.Comparables))
	ppsfs := make([]decimal.Decimal, 0, len(in.Comparables))
	weighted := decimal.Zero
	totalWeight := decimal.Zero

	for i, c := range in.Comparables {
		adjusted := c.SalePrice.Add(c.Adjustment).
			Add(cfg.BedroomAdjustment.Mul(decimal.NewFromInt(int64(in.Subject.Bedrooms - c.Bedrooms)))).
			Add(cfg.BathroomAdjustment.Mul(in.Subject.Bathrooms.Sub(c.Bathrooms)))
		if !adjusted.IsPositive() {
			return domain.CMAResult{}, invalid(fmt.Sprintf("comparables[%d]", i), "adjusted price must be greater than zero")
		}

		ppsf := adjusted.DivRound(c.SquareFootage, workPlaces)
		w := weight(c, asOf, cfg)

		weighted = weighted.Add(ppsf.Mul(w))
		totalWeight = totalWeight.Add(w)
		ppsfs = append(ppsfs, ppsf)
		comps = append(comps, domain.ComparableResult{
			Address:            c.Address,
			AdjustedPrice:      roundMoney(adjusted),
			PricePerSquareFoot: roundMoney(ppsf),
			Weight:             w,
		})
	}

	ppsfUsed := roundMoney(weighted.DivRound(totalWeight, workPlaces))
	estimate := roundMoney(ppsfUsed.Mul(in.Subject.SquareFootage))

	mode := BandModeFixed
	band := roundMoney(percentOf(estimate, cfg.BandPercent))
	if cfg.BandMode == BandModeStdDev && len(ppsfs) > 1 {
		mode = BandModeStdDev
		band = roundMoney(stdDev(ppsfs).Mul(in.Subject.SquareFootage))
	}

	return domain.CMAResult{
		EstimatedValue:         estimate,
		ValueRangeLow:          decimal.Max(estimate.Sub(band), decimal.Zero),
		ValueRangeHigh:         estimate.Add(band),
		PricePerSquareFootUsed: ppsfUsed,
		BandMode:               mode,
		Comparables:            comps,
	}, nil
}

func weight(c domain.Comparable, asOf time.Time, cfg CMAConfig) decimal.Decimal {
	denom := one
	if c.DistanceMiles.Valid && cfg.DistanceScaleMiles.IsPositive() {
		denom = denom.Add(c.DistanceMiles.Decimal.DivRound(cfg.DistanceScaleMiles, workPlaces))
	}
	if !c.SaleDate.IsZero() && cfg.RecencyScaleMonths.IsPositive() {
		months := asOf.Sub(c.SaleDate).Hours() / 24 / daysPerMonth
		if months > 0 {
			age := decimal.NewFromFloat(months).Round(workPlaces)
			denom = denom.Add(age.DivRound(cfg.RecencyScaleMonths, workPlaces))
		}
	}
	return one.DivRound(denom, weightPlaces)
}

func latestSale(comps []domain.Comparable) time.Time {
	var latest time.Time
	for _, c := range comps {
		if c.SaleDate.After(latest) {
			latest = c.SaleDate
		}
	}
	return latest
}

// stdDev is the sample standard deviation; callers pass at least two
// values.
func stdDev(values []decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(len(values)))
	mean := sum(values...).DivRound(n, workPlaces)
	squares := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		squares = squares.Add(d.Mul(d))
	}
	variance := squares.DivRound(n.Sub(one), workPlaces)
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}

func validateCMA(in domain.CMAInput) error {
	if err := requirePositive("subject.square_footage", in.Subject.SquareFootage); err != nil {
		return err
	}
	if in.Subject.Bedrooms < 0 {
		return invalid("subject.bedrooms", "must not be negative")
	}
	if err := requireNonNegative("subject.bathrooms", in.Subject.Bathrooms); err != nil {
		return err
	}
	if len(in.Comparables) == 0 {
		return invalid("comparables", "must contain at least one comparable")
	}
	for i, c := range in.Comparables {
		field := fmt.Sprintf("comparables[%d]", i)
		if err := requirePositive(field+".square_footage", c.SquareFootage); err != nil {
			return err
		}
		if err := requirePositive(field+".sale_price", c.SalePrice); err != nil {
			return err
		}
		if c.Bedrooms < 0 {
			return invalid(field+".bedrooms", "must not be negative")
		}
		if err := requireNonNegative(field+".bathrooms", c.Bathrooms); err != nil {
			return err
		}
		if c.DistanceMiles.Valid {
			if err := requireNonNegative(field+".distance_miles", c.DistanceMiles.Decimal); err != nil {
				return err
			}
		}
	}
	return nil
}
