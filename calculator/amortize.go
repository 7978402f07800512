package calculator

import (
	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

// Amortize builds the level-payment schedule of a fixed-rate loan.
//
// Amounts are rounded to cents period by period. The final period absorbs
// the rounding remainder, so the last remaining balance is exactly zero
// and the principal portions sum to the principal.
//
// At a zero rate the payment is principal / termMonths rounded to cents,
// so a principal that does not divide evenly (1000 over 3 months) pays
// 333.33 twice and 333.34 in the final period.
func (e *Engine) Amortize(principal, annualRatePercent decimal.Decimal, termMonths int) (domain.AmortizationResult, error) {
	if err := requirePositive("principal", principal); err != nil {
		return domain.AmortizationResult{}, err
	}
	if err := requireNonNegative("annual_interest_rate_percent", annualRatePercent); err != nil {
		return domain.AmortizationResult{}, err
	}
	if err := requireRange("term_months", termMonths, 1, e.cfg.MaxScheduleMonths); err != nil {
		return domain.AmortizationResult{}, err
	}

	r := monthlyRate(annualRatePercent)
	payment := roundMoney(annuityPayment(principal, r, termMonths))

	schedule := make([]domain.SchedulePeriod, 0, termMonths)
	balance := principal
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero

	for period := 1; period <= termMonths; period++ {
		interest := roundMoney(balance.Mul(r))
		principalPortion := payment.Sub(interest)
		if principalPortion.IsNegative() {
			principalPortion = decimal.Zero
		}
		if period == termMonths || principalPortion.GreaterThan(balance) {
			principalPortion = balance
		}
		paid := principalPortion.Add(interest)
		balance = balance.Sub(principalPortion)

		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(paid)
		schedule = append(schedule, domain.SchedulePeriod{
			Period:           period,
			Payment:          paid,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			RemainingBalance: balance,
		})
	}

	return domain.AmortizationResult{
		Principal:      principal,
		MonthlyPayment: payment,
		TotalInterest:  totalInterest,
		TotalPaid:      totalPaid,
		Schedule:       schedule,
	}, nil
}

// AmortizeLoan amortizes the financed part of a purchase.
func (e *Engine) AmortizeLoan(in domain.LoanInput) (domain.AmortizationResult, error) {
	if err := requirePositive("principal", in.Principal); err != nil {
		return domain.AmortizationResult{}, err
	}
	if err := requireNonNegative("down_payment", in.DownPayment); err != nil {
		return domain.AmortizationResult{}, err
	}
	if in.DownPayment.GreaterThanOrEqual(in.Principal) {
		return domain.AmortizationResult{}, invalid("down_payment", "must be less than the principal")
	}
	return e.Amortize(in.FinancedAmount(), in.AnnualInterestRatePercent, in.TermMonths)
}
