package calculator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

var minGrowthPercent = decimal.NewFromInt(-100)

// AnalyzeInvestment computes rental NOI, financing cost, return ratios
// and a yearly projection for a rental purchase.
//
// Debt service comes from Amortize on the financed amount; an all-cash
// purchase has none, and DSCR is then not applicable.
func (e *Engine) AnalyzeInvestment(in domain.InvestmentInput) (domain.InvestmentResult, error) {
	if err := e.validateInvestment(in); err != nil {
		return domain.InvestmentResult{}, err
	}

	res := domain.InvestmentResult{
		Units:              make([]domain.UnitResult, 0, len(in.Units)),
		AnnualNOI:          decimal.Zero,
		LoanAmount:         in.PurchasePrice.Sub(in.DownPayment),
		MonthlyDebtPayment: decimal.Zero,
		AnnualDebtService:  decimal.Zero,
		CashInvested:       in.DownPayment.Add(in.ClosingCosts),
	}

	annualRent := decimal.Zero
	annualExpenses := decimal.Zero
	for _, u := range in.Units {
		vacancy := u.VacancyRatePercent.DivRound(hundred, workPlaces)
		effective := roundMoney(u.MonthlyRent.Mul(one.Sub(vacancy)))
		expenses := u.MonthlyExpenses
		for _, item := range u.ExpenseItems {
			expenses = expenses.Add(item)
		}
		noi := effective.Sub(expenses).Mul(twelve)

		res.Units = append(res.Units, domain.UnitResult{
			Label:                u.Label,
			EffectiveMonthlyRent: effective,
			MonthlyExpenses:      expenses,
			AnnualNOI:            noi,
		})
		res.AnnualNOI = res.AnnualNOI.Add(noi)
		annualRent = annualRent.Add(effective.Mul(twelve))
		annualExpenses = annualExpenses.Add(expenses.Mul(twelve))
	}

	termMonths := 0
	if res.LoanAmount.IsPositive() {
		loan, err := e.Amortize(res.LoanAmount, in.Loan.AnnualInterestRatePercent, in.Loan.TermMonths)
		if err != nil {
			return domain.InvestmentResult{}, fmt.Errorf("loan: %w", err)
		}
		termMonths = in.Loan.TermMonths
		res.MonthlyDebtPayment = loan.MonthlyPayment
		res.AnnualDebtService = loan.MonthlyPayment.Mul(twelve)
	}

	res.AnnualCashFlow = res.AnnualNOI.Sub(res.AnnualDebtService)
	res.CapRate = ratio(res.AnnualNOI, in.PurchasePrice)
	res.DSCR = ratio(res.AnnualNOI, res.AnnualDebtService)
	res.CashOnCashReturn = ratio(res.AnnualCashFlow, res.CashInvested)
	res.Projections = project(in, annualRent, annualExpenses, res.MonthlyDebtPayment, termMonths)
	return res, nil
}

// project grows rent and expenses independently, compounding yearly from
// the first-year figures.
func project(in domain.InvestmentInput, rent, expenses, monthlyDebt decimal.Decimal, termMonths int) []domain.YearProjection {
	rentGrowth := growthFactor(in.RentGrowthPercent)
	expenseGrowth := growthFactor(in.ExpenseGrowthPercent)

	out := make([]domain.YearProjection, 0, in.ProjectionYears)
	cumulative := decimal.Zero
	for year := 1; year <= in.ProjectionYears; year++ {
		yearRent := roundMoney(rent.Mul(compound(rentGrowth, year-1)))
		yearExpenses := roundMoney(expenses.Mul(compound(expenseGrowth, year-1)))
		noi := yearRent.Sub(yearExpenses)

		months := termMonths - (year-1)*12
		if months > 12 {
			months = 12
		}
		debt := decimal.Zero
		if months > 0 {
			debt = monthlyDebt.Mul(decimal.NewFromInt(int64(months)))
		}

		cashFlow := noi.Sub(debt)
		cumulative = cumulative.Add(cashFlow)
		out = append(out, domain.YearProjection{
			Year:               year,
			EffectiveRent:      yearRent,
			Expenses:           yearExpenses,
			NOI:                noi,
			DebtService:        debt,
			CashFlow:           cashFlow,
			CumulativeCashFlow: cumulative,
		})
	}
	return out
}

func (e *Engine) validateInvestment(in domain.InvestmentInput) error {
	if err := requireNonNegative("purchase_price", in.PurchasePrice); err != nil {
		return err
	}
	if err := requireNonNegative("down_payment", in.DownPayment); err != nil {
		return err
	}
	if in.DownPayment.GreaterThan(in.PurchasePrice) {
		return invalid("down_payment", "must not exceed the purchase price")
	}
	if err := requireNonNegative("closing_costs", in.ClosingCosts); err != nil {
		return err
	}
	if len(in.Units) == 0 {
		return invalid("units", "must contain at least one unit")
	}
	for i, u := range in.Units {
		field := fmt.Sprintf("units[%d]", i)
		if err := requireNonNegative(field+".monthly_rent", u.MonthlyRent); err != nil {
			return err
		}
		if err := requireNonNegative(field+".monthly_expenses", u.MonthlyExpenses); err != nil {
			return err
		}
		for _, label := range slices.Sorted(maps.Keys(u.ExpenseItems)) {
			if err := requireNonNegative(field+".expense_items."+label, u.ExpenseItems[label]); err != nil {
				return err
			}
		}
		if err := requirePercent(field+".vacancy_rate_percent", u.VacancyRatePercent); err != nil {
			return err
		}
	}
	if err := requireRange("projection_years", in.ProjectionYears, 1, e.cfg.MaxProjectionYears); err != nil {
		return err
	}
	if !in.RentGrowthPercent.GreaterThan(minGrowthPercent) {
		return invalid("rent_growth_percent", "must be greater than -100")
	}
	if !in.ExpenseGrowthPercent.GreaterThan(minGrowthPercent) {
		return invalid("expense_growth_percent", "must be greater than -100")
	}
	return nil
}
