package calculator

import "github.com/shopspring/decimal"

const (
	moneyPlaces = 2
	ratioPlaces = 6
	workPlaces  = 20
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// monthlyRate converts an annual percentage to a monthly fraction.
func monthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.DivRound(decimal.NewFromInt(1200), workPlaces)
}

// growthFactor is 1 + percent/100.
func growthFactor(percent decimal.Decimal) decimal.Decimal {
	return one.Add(percent.DivRound(hundred, workPlaces))
}

// compound raises base to a non-negative integer power by repeated
// squaring, rounding each step to workPlaces.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(workPlaces)
		}
		base = base.Mul(base).Round(workPlaces)
		n >>= 1
	}
	return result
}

// annuityPayment is the level payment that retires principal over n
// periods at periodic rate r, unrounded.
func annuityPayment(principal, r decimal.Decimal, n int) decimal.Decimal {
	periods := decimal.NewFromInt(int64(n))
	if r.IsZero() {
		return principal.DivRound(periods, workPlaces)
	}
	f := compound(one.Add(r), n)
	return principal.Mul(r).Mul(f).DivRound(f.Sub(one), workPlaces)
}

// annuityPrincipal inverts annuityPayment: the principal a level payment
// retires over n periods at rate r.
func annuityPrincipal(payment, r decimal.Decimal, n int) decimal.Decimal {
	if r.IsZero() {
		return payment.Mul(decimal.NewFromInt(int64(n)))
	}
	f := compound(one.Add(r), n)
	return payment.Mul(f.Sub(one)).DivRound(r.Mul(f), workPlaces)
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
