package domain

import "github.com/shopspring/decimal"

type InvestmentUnit struct {
	Label              string                     `json:"label"`
	MonthlyRent        decimal.Decimal            `json:"monthly_rent"`
	MonthlyExpenses    decimal.Decimal            `json:"monthly_expenses"`
	ExpenseItems       map[string]decimal.Decimal `json:"expense_items,omitempty"`
	VacancyRatePercent decimal.Decimal            `json:"vacancy_rate_percent"`
}

// LoanTerms are the financing terms of an investment purchase; the
// financed amount is derived from the purchase price and down payment.
type LoanTerms struct {
	AnnualInterestRatePercent decimal.Decimal `json:"annual_interest_rate_percent"`
	TermMonths                int             `json:"term_months"`
}

type InvestmentInput struct {
	PurchasePrice        decimal.Decimal  `json:"purchase_price"`
	DownPayment          decimal.Decimal  `json:"down_payment"`
	ClosingCosts         decimal.Decimal  `json:"closing_costs"`
	Loan                 LoanTerms        `json:"loan"`
	Units                []InvestmentUnit `json:"units"`
	ProjectionYears      int              `json:"projection_years"`
	RentGrowthPercent    decimal.Decimal  `json:"rent_growth_percent"`
	ExpenseGrowthPercent decimal.Decimal  `json:"expense_growth_percent"`
}

// LoanInput returns the loan embedded in the purchase.
func (in InvestmentInput) LoanInput() LoanInput {
	return LoanInput{
		Principal:                 in.PurchasePrice,
		AnnualInterestRatePercent: in.Loan.AnnualInterestRatePercent,
		TermMonths:                in.Loan.TermMonths,
		DownPayment:               in.DownPayment,
	}
}

type UnitResult struct {
	Label                string          `json:"label"`
	EffectiveMonthlyRent decimal.Decimal `json:"effective_monthly_rent"`
	MonthlyExpenses      decimal.Decimal `json:"monthly_expenses"`
	AnnualNOI            decimal.Decimal `json:"annual_noi"`
}

type YearProjection struct {
	Year               int             `json:"year"`
	EffectiveRent      decimal.Decimal `json:"effective_rent"`
	Expenses           decimal.Decimal `json:"expenses"`
	NOI                decimal.Decimal `json:"noi"`
	DebtService        decimal.Decimal `json:"debt_service"`
	CashFlow           decimal.Decimal `json:"cash_flow"`
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`
}

type InvestmentResult struct {
	Units              []UnitResult     `json:"units"`
	AnnualNOI          decimal.Decimal  `json:"annual_noi"`
	LoanAmount         decimal.Decimal  `json:"loan_amount"`
	MonthlyDebtPayment decimal.Decimal  `json:"monthly_debt_payment"`
	AnnualDebtService  decimal.Decimal  `json:"annual_debt_service"`
	AnnualCashFlow     decimal.Decimal  `json:"annual_cash_flow"`
	CashInvested       decimal.Decimal  `json:"cash_invested"`
	CapRate            Ratio            `json:"cap_rate"`
	CashOnCashReturn   Ratio            `json:"cash_on_cash_return"`
	DSCR               Ratio            `json:"dscr"`
	Projections        []YearProjection `json:"projections"`
	Explanation        string           `json:"explanation,omitempty"`
}
