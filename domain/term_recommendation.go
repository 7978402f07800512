package domain

import "github.com/shopspring/decimal"

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

type TermComparisonInput struct {
	Amount                    decimal.Decimal     `json:"amount"`
	AnnualInterestRatePercent decimal.Decimal     `json:"annual_interest_rate_percent"`
	TermsMonths               []int               `json:"terms_months"`
	MaxMonthlyPayment         decimal.NullDecimal `json:"max_monthly_payment"`
	Preference                string              `json:"preference"`
}

type TermOption struct {
	TermMonths     int             `json:"term_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	Score          decimal.Decimal `json:"score"`
	Reason         string          `json:"reason"`
}

type TermComparisonResult struct {
	RecommendedTerm int          `json:"recommended_term"`
	Options         []TermOption `json:"options"`
}
