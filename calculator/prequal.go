package calculator

import (
	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

// Prequalify derives the largest affordable payment, loan and purchase
// price under the front-end and back-end debt-to-income caps.
//
// When taxes and insurance consume the whole allowed payment the result
// reports zero financed affordability rather than a negative price.
func (e *Engine) Prequalify(in domain.PrequalInput) (domain.PrequalResult, error) {
	frontCap, backCap, err := e.ratioCaps(in)
	if err != nil {
		return domain.PrequalResult{}, err
	}
	if err := validatePrequal(in, e.cfg.MaxScheduleMonths); err != nil {
		return domain.PrequalResult{}, err
	}

	front := percentOf(in.GrossMonthlyIncome, frontCap)
	back := percentOf(in.GrossMonthlyIncome, backCap).Sub(in.MonthlyDebts)

	maxPayment, limiting := front, domain.LimitFrontEnd
	if back.LessThan(front) {
		maxPayment, limiting = back, domain.LimitBackEnd
	}
	// Truncate so the payment never exceeds either cap.
	maxPayment = decimal.Max(maxPayment, decimal.Zero).Truncate(moneyPlaces)

	res := domain.PrequalResult{
		FrontEndPayment:         roundMoney(front),
		BackEndPayment:          roundMoney(back),
		LimitingRatio:           limiting,
		FrontEndRatioCapPercent: frontCap,
		BackEndRatioCapPercent:  backCap,
		MaxMonthlyPayment:       maxPayment,
		MaxLoanAmount:           decimal.Zero,
		MaxPurchasePrice:        in.DownPaymentAmount,
	}

	available := maxPayment.Sub(in.TaxesAndInsuranceMonthly)
	if !available.IsPositive() {
		res.PrincipalAndInterest = decimal.Zero
		if back.IsNegative() {
			res.Reason = "monthly debts exceed the back-end ratio limit"
		} else {
			res.Reason = "taxes and insurance exceed the allowed housing payment"
		}
		return res, nil
	}

	r := monthlyRate(in.InterestRatePercent)
	res.Qualified = true
	res.PrincipalAndInterest = available
	res.MaxLoanAmount = annuityPrincipal(available, r, in.LoanTermMonths).Truncate(moneyPlaces)
	res.MaxPurchasePrice = res.MaxLoanAmount.Add(in.DownPaymentAmount)
	return res, nil
}

func (e *Engine) ratioCaps(in domain.PrequalInput) (decimal.Decimal, decimal.Decimal, error) {
	frontCap := e.cfg.FrontEndRatioCapPercent
	if in.FrontEndRatioCapPercent.Valid {
		frontCap = in.FrontEndRatioCapPercent.Decimal
	}
	backCap := e.cfg.BackEndRatioCapPercent
	if in.BackEndRatioCapPercent.Valid {
		backCap = in.BackEndRatioCapPercent.Decimal
	}
	if err := requirePositive("front_end_ratio_cap_percent", frontCap); err != nil {
		return frontCap, backCap, err
	}
	if err := requirePercent("front_end_ratio_cap_percent", frontCap); err != nil {
		return frontCap, backCap, err
	}
	if err := requirePositive("back_end_ratio_cap_percent", backCap); err != nil {
		return frontCap, backCap, err
	}
	if err := requirePercent("back_end_ratio_cap_percent", backCap); err != nil {
		return frontCap, backCap, err
	}
	return frontCap, backCap, nil
}

func validatePrequal(in domain.PrequalInput, maxMonths int) error {
	if err := requirePositive("gross_monthly_income", in.GrossMonthlyIncome); err != nil {
		return err
	}
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthly_debts", in.MonthlyDebts},
		{"down_payment_amount", in.DownPaymentAmount},
		{"interest_rate_percent", in.InterestRatePercent},
		{"taxes_and_insurance_monthly", in.TaxesAndInsuranceMonthly},
	}
	for _, c := range checks {
		if err := requireNonNegative(c.field, c.value); err != nil {
			return err
		}
	}
	return requireRange("loan_term_months", in.LoanTermMonths, 1, maxMonths)
}
