package domain

import "github.com/shopspring/decimal"

type NetSheetInput struct {
	SalePrice             decimal.Decimal            `json:"sale_price"`
	MortgagePayoff        decimal.Decimal            `json:"mortgage_payoff"`
	CommissionRatePercent decimal.Decimal            `json:"commission_rate_percent"`
	ClosingCosts          map[string]decimal.Decimal `json:"closing_costs,omitempty"`
	Location              string                     `json:"location,omitempty"`
}

const (
	CostSourcePreset = "preset"
	CostSourceUser   = "user"
)

type CostLineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
}

type NetSheetResult struct {
	SalePrice         decimal.Decimal `json:"sale_price"`
	MortgagePayoff    decimal.Decimal `json:"mortgage_payoff"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	ClosingCosts      []CostLineItem  `json:"closing_costs"`
	ClosingCostsTotal decimal.Decimal `json:"closing_costs_total"`
	TotalCosts        decimal.Decimal `json:"total_costs"`
	NetProceeds       decimal.Decimal `json:"net_proceeds"`
}
