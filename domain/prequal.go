package domain

import "github.com/shopspring/decimal"

type PrequalInput struct {
	GrossMonthlyIncome       decimal.Decimal `json:"gross_monthly_income"`
	MonthlyDebts             decimal.Decimal `json:"monthly_debts"`
	DownPaymentAmount        decimal.Decimal `json:"down_payment_amount"`
	InterestRatePercent      decimal.Decimal `json:"interest_rate_percent"`
	LoanTermMonths           int             `json:"loan_term_months"`
	TaxesAndInsuranceMonthly decimal.Decimal `json:"taxes_and_insurance_monthly"`

	// Ratio caps fall back to the configured defaults when not supplied.
	FrontEndRatioCapPercent decimal.NullDecimal `json:"front_end_ratio_cap_percent"`
	BackEndRatioCapPercent  decimal.NullDecimal `json:"back_end_ratio_cap_percent"`
}

const (
	LimitFrontEnd = "front_end"
	LimitBackEnd  = "back_end"
)

type PrequalResult struct {
	Qualified               bool            `json:"qualified"`
	FrontEndPayment         decimal.Decimal `json:"front_end_payment"`
	BackEndPayment          decimal.Decimal `json:"back_end_payment"`
	LimitingRatio           string          `json:"limiting_ratio"`
	FrontEndRatioCapPercent decimal.Decimal `json:"front_end_ratio_cap_percent"`
	BackEndRatioCapPercent  decimal.Decimal `json:"back_end_ratio_cap_percent"`
	MaxMonthlyPayment       decimal.Decimal `json:"max_monthly_payment"`
	PrincipalAndInterest    decimal.Decimal `json:"principal_and_interest"`
	MaxLoanAmount           decimal.Decimal `json:"max_loan_amount"`
	MaxPurchasePrice        decimal.Decimal `json:"max_purchase_price"`
	Reason                  string          `json:"reason,omitempty"`
}
