package domain

import "github.com/shopspring/decimal"

// LoanInput describes a fixed-rate purchase loan. The financed amount is
// Principal minus DownPayment.
type LoanInput struct {
	Principal                 decimal.Decimal `json:"principal"`
	AnnualInterestRatePercent decimal.Decimal `json:"annual_interest_rate_percent"`
	TermMonths                int             `json:"term_months"`
	DownPayment               decimal.Decimal `json:"down_payment"`
}

// FinancedAmount is the part of the price covered by the loan.
func (l LoanInput) FinancedAmount() decimal.Decimal {
	return l.Principal.Sub(l.DownPayment)
}

type SchedulePeriod struct {
	Period           int             `json:"period"`
	Payment          decimal.Decimal `json:"payment"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type AmortizationResult struct {
	Principal      decimal.Decimal  `json:"principal"`
	MonthlyPayment decimal.Decimal  `json:"monthly_payment"`
	TotalInterest  decimal.Decimal  `json:"total_interest"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	Schedule       []SchedulePeriod `json:"schedule,omitempty"`
}
