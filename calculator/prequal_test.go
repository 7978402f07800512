package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/domain"
)

func prequalInput() domain.PrequalInput {
	return domain.PrequalInput{
		GrossMonthlyIncome:       d("8000"),
		MonthlyDebts:             d("500"),
		DownPaymentAmount:        d("20000"),
		InterestRatePercent:      d("6"),
		LoanTermMonths:           360,
		TaxesAndInsuranceMonthly: d("400"),
	}
}

func TestPrequalify_DefaultCaps(t *testing.T) {
	e := New(DefaultConfig())

	res, err := e.Prequalify(prequalInput())
	require.NoError(t, err)

	assert.True(t, res.Qualified)
	assertDecimal(t, "28", res.FrontEndRatioCapPercent)
	assertDecimal(t, "36", res.BackEndRatioCapPercent)
	assertDecimal(t, "2240", res.FrontEndPayment)
	assertDecimal(t, "2380", res.BackEndPayment)
	assert.Equal(t, domain.LimitFrontEnd, res.LimitingRatio)
	assertDecimal(t, "2240", res.MaxMonthlyPayment)
	assert.True(t, res.MaxMonthlyPayment.LessThanOrEqual(d("2380")))
	assertDecimal(t, "1840", res.PrincipalAndInterest)
	assertDecimal(t, "306896.57", res.MaxLoanAmount)
	assertDecimal(t, "326896.57", res.MaxPurchasePrice)
}

func TestPrequalify_LoanRoundTripsThroughAmortize(t *testing.T) {
	e := New(DefaultConfig())

	res, err := e.Prequalify(prequalInput())
	require.NoError(t, err)

	loan, err := e.Amortize(res.MaxLoanAmount, d("6"), 360)
	require.NoError(t, err)
	assert.True(t, loan.MonthlyPayment.LessThanOrEqual(res.PrincipalAndInterest))
	assertClose(t, res.PrincipalAndInterest.InexactFloat64(), loan.MonthlyPayment, 0.01)
}

func TestPrequalify_BackEndLimits(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()
	in.MonthlyDebts = d("1200")

	res, err := e.Prequalify(in)
	require.NoError(t, err)
	assert.Equal(t, domain.LimitBackEnd, res.LimitingRatio)
	assertDecimal(t, "1680", res.MaxMonthlyPayment)
}

func TestPrequalify_ExplicitCaps(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()
	in.FrontEndRatioCapPercent = decimal.NewNullDecimal(d("31"))
	in.BackEndRatioCapPercent = decimal.NewNullDecimal(d("43"))

	res, err := e.Prequalify(in)
	require.NoError(t, err)
	assertDecimal(t, "2480", res.MaxMonthlyPayment)
	assertDecimal(t, "31", res.FrontEndRatioCapPercent)
}

func TestPrequalify_PaymentWithinBackEndCap(t *testing.T) {
	e := New(DefaultConfig())
	incomes := []string{"1000", "3333.33", "8000", "12345.67", "25000"}
	debts := []string{"0", "250.50", "900", "4000"}

	for _, income := range incomes {
		for _, debt := range debts {
			in := prequalInput()
			in.GrossMonthlyIncome = d(income)
			in.MonthlyDebts = d(debt)

			res, err := e.Prequalify(in)
			require.NoError(t, err)

			limit := percentOf(in.GrossMonthlyIncome, res.BackEndRatioCapPercent)
			assert.True(t, res.MaxMonthlyPayment.LessThanOrEqual(limit), "income %s debts %s", income, debt)
			assert.False(t, res.MaxPurchasePrice.IsNegative())
		}
	}
}

func TestPrequalify_MonotonicInIncome(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()

	prev := decimal.Zero
	for income := 500; income <= 30000; income += 250 {
		in.GrossMonthlyIncome = decimal.NewFromInt(int64(income))
		res, err := e.Prequalify(in)
		require.NoError(t, err)
		require.True(t, res.MaxPurchasePrice.GreaterThanOrEqual(prev),
			"income %d: %s < %s", income, res.MaxPurchasePrice, prev)
		prev = res.MaxPurchasePrice
	}
}

func TestPrequalify_DebtsExceedThreshold(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()
	in.MonthlyDebts = d("3000")

	res, err := e.Prequalify(in)
	require.NoError(t, err)

	assert.False(t, res.Qualified)
	assert.True(t, res.MaxMonthlyPayment.IsZero())
	assert.True(t, res.MaxLoanAmount.IsZero())
	assertDecimal(t, "20000", res.MaxPurchasePrice)
	assert.NotEmpty(t, res.Reason)
}

func TestPrequalify_TaxesConsumePayment(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()
	in.TaxesAndInsuranceMonthly = d("2500")

	res, err := e.Prequalify(in)
	require.NoError(t, err)
	assert.False(t, res.Qualified)
	assert.True(t, res.MaxLoanAmount.IsZero())
	assert.True(t, res.PrincipalAndInterest.IsZero())
}

func TestPrequalify_ZeroRate(t *testing.T) {
	e := New(DefaultConfig())
	in := prequalInput()
	in.InterestRatePercent = decimal.Zero

	res, err := e.Prequalify(in)
	require.NoError(t, err)
	assertDecimal(t, "662400", res.MaxLoanAmount)
}

func TestPrequalify_InvalidInput(t *testing.T) {
	e := New(DefaultConfig())
	cases := []struct {
		name   string
		mutate func(*domain.PrequalInput)
	}{
		{"zero income", func(in *domain.PrequalInput) { in.GrossMonthlyIncome = decimal.Zero }},
		{"negative debts", func(in *domain.PrequalInput) { in.MonthlyDebts = d("-1") }},
		{"negative rate", func(in *domain.PrequalInput) { in.InterestRatePercent = d("-3") }},
		{"zero term", func(in *domain.PrequalInput) { in.LoanTermMonths = 0 }},
		{"cap over 100", func(in *domain.PrequalInput) { in.BackEndRatioCapPercent = decimal.NewNullDecimal(d("120")) }},
		{"zero cap", func(in *domain.PrequalInput) { in.FrontEndRatioCapPercent = decimal.NewNullDecimal(decimal.Zero) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := prequalInput()
			tc.mutate(&in)
			_, err := e.Prequalify(in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
