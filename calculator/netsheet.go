package calculator

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

// ComputeNetSheet estimates a seller's proceeds. Location presets are
// merged with the caller's closing costs; a caller item replaces the
// preset with the same label. Negative proceeds are a valid outcome.
func (e *Engine) ComputeNetSheet(in domain.NetSheetInput) (domain.NetSheetResult, error) {
	if err := requireNonNegative("sale_price", in.SalePrice); err != nil {
		return domain.NetSheetResult{}, err
	}
	if err := requireNonNegative("mortgage_payoff", in.MortgagePayoff); err != nil {
		return domain.NetSheetResult{}, err
	}
	if err := requirePercent("commission_rate_percent", in.CommissionRatePercent); err != nil {
		return domain.NetSheetResult{}, err
	}

	items, err := e.closingCosts(in)
	if err != nil {
		return domain.NetSheetResult{}, err
	}

	closingTotal := decimal.Zero
	for _, item := range items {
		closingTotal = closingTotal.Add(item.Amount)
	}
	commission := roundMoney(percentOf(in.SalePrice, in.CommissionRatePercent))
	totalCosts := commission.Add(closingTotal)

	return domain.NetSheetResult{
		SalePrice:         in.SalePrice,
		MortgagePayoff:    in.MortgagePayoff,
		CommissionAmount:  commission,
		ClosingCosts:      items,
		ClosingCostsTotal: closingTotal,
		TotalCosts:        totalCosts,
		NetProceeds:       in.SalePrice.Sub(in.MortgagePayoff).Sub(totalCosts),
	}, nil
}

func (e *Engine) closingCosts(in domain.NetSheetInput) ([]domain.CostLineItem, error) {
	byLabel := make(map[string]domain.CostLineItem)

	if loc := normalizeKey(in.Location); loc != "" {
		presets, ok := e.cfg.ClosingCostPresets[loc]
		if !ok {
			return nil, invalid("location", "has no closing cost presets: %q", in.Location)
		}
		for _, p := range presets {
			key := normalizeKey(p.Label)
			if _, dup := byLabel[key]; dup {
				return nil, invalid("location", "closing cost presets for %q repeat the label %q", in.Location, p.Label)
			}
			amount := roundMoney(p.Amount.Add(percentOf(in.SalePrice, p.PercentOfPrice)))
			byLabel[key] = domain.CostLineItem{
				Label:  strings.TrimSpace(p.Label),
				Amount: amount,
				Source: domain.CostSourcePreset,
			}
		}
	}

	seen := make(map[string]bool, len(in.ClosingCosts))
	for _, label := range slices.Sorted(maps.Keys(in.ClosingCosts)) {
		amount := in.ClosingCosts[label]
		key := normalizeKey(label)
		field := "closing_costs." + label
		if key == "" {
			return nil, invalid("closing_costs", "labels must not be empty")
		}
		if seen[key] {
			return nil, invalid(field, "duplicates another label")
		}
		seen[key] = true
		if err := requireNonNegative(field, amount); err != nil {
			return nil, err
		}
		byLabel[key] = domain.CostLineItem{
			Label:  strings.TrimSpace(label),
			Amount: amount,
			Source: domain.CostSourceUser,
		}
	}

	items := make([]domain.CostLineItem, 0, len(byLabel))
	for _, item := range byLabel {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return normalizeKey(items[i].Label) < normalizeKey(items[j].Label)
	})
	return items, nil
}
