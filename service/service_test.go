package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
	"realty-calc/repository"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

type failingCache struct {
	sets int
}

func (f *failingCache) Get(context.Context, string) (string, bool) { return "", false }

func (f *failingCache) Set(context.Context, string, string, time.Duration) error {
	f.sets++
	return errors.New("cache unavailable")
}

func newEngine() *calculator.Engine {
	return calculator.New(calculator.DefaultConfig())
}

func TestCached_StoresAndReuses(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryCache()
	rc := NewResultCache(mem, time.Minute, zap.NewNop())

	calls := 0
	compute := func() (domain.NetSheetResult, error) {
		calls++
		return newEngine().ComputeNetSheet(domain.NetSheetInput{SalePrice: d("100"), MortgagePayoff: d("40")})
	}
	input := map[string]string{"sale_price": "100"}

	first, err := cached(ctx, rc, "netsheet", input, compute)
	require.NoError(t, err)
	second, err := cached(ctx, rc, "netsheet", input, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, mem.Len())
	assertDecimal(t, "60", second.NetProceeds)
	assert.True(t, first.NetProceeds.Equal(second.NetProceeds))
}

func TestCached_DoesNotStoreErrors(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryCache()
	rc := NewResultCache(mem, time.Minute, nil)

	_, err := cached(ctx, rc, "amortize", "bad", func() (domain.AmortizationResult, error) {
		return domain.AmortizationResult{}, calculator.ErrInvalidInput
	})
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
	assert.Equal(t, 0, mem.Len())
}

func TestCached_CacheFailureIsNotFatal(t *testing.T) {
	fc := &failingCache{}
	svc := NewLoanService(newEngine(), NewResultCache(fc, time.Minute, nil), nil)

	res, err := svc.Amortize(context.Background(), domain.LoanInput{
		Principal:                 d("300000"),
		AnnualInterestRatePercent: d("6"),
		TermMonths:                360,
	})
	require.NoError(t, err)
	assertDecimal(t, "1798.65", res.MonthlyPayment)
	assert.Equal(t, 1, fc.sets)
}

func TestCacheKey_StableAcrossMapOrder(t *testing.T) {
	a := domain.NetSheetInput{
		SalePrice: d("400000"),
		ClosingCosts: map[string]decimal.Decimal{
			"Title": d("1500"), "Escrow": d("650"), "Survey": d("400"), "Recording": d("120"),
		},
	}
	b := a
	b.ClosingCosts = map[string]decimal.Decimal{
		"Recording": d("120"), "Survey": d("400"), "Escrow": d("650"), "Title": d("1500"),
	}

	ka, err := cacheKey("netsheet", a)
	require.NoError(t, err)
	kb, err := cacheKey("netsheet", b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
	assert.Regexp(t, `^calc:netsheet:[0-9a-f]{16}$`, ka)

	b.SalePrice = d("400001")
	kc, err := cacheKey("netsheet", b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc)

	kd, err := cacheKey("cma", a)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kd)
}

func TestLoanService_Amortize(t *testing.T) {
	mem := repository.NewMemoryCache()
	svc := NewLoanService(newEngine(), NewResultCache(mem, 0, nil), nil)

	input := domain.LoanInput{
		Principal:                 d("350000"),
		DownPayment:               d("50000"),
		AnnualInterestRatePercent: d("6"),
		TermMonths:                360,
	}
	res, err := svc.Amortize(context.Background(), input)
	require.NoError(t, err)
	assertDecimal(t, "300000", res.Principal)
	assertDecimal(t, "1798.65", res.MonthlyPayment)
	assert.Len(t, res.Schedule, 360)

	cachedRes, err := svc.Amortize(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, cachedRes.Schedule, 360)
	assertDecimal(t, "347515.44", cachedRes.TotalInterest)
	assert.Equal(t, 1, mem.Len())
}

func TestLoanService_InvalidInput(t *testing.T) {
	svc := NewLoanService(newEngine(), nil, nil)

	_, err := svc.Amortize(context.Background(), domain.LoanInput{
		Principal:                 d("1000"),
		AnnualInterestRatePercent: d("5"),
		TermMonths:                0,
	})
	require.ErrorIs(t, err, calculator.ErrInvalidInput)

	var ie *calculator.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "term_months", ie.Field)
}

func TestPrequalService_Prequalify(t *testing.T) {
	svc := NewPrequalService(newEngine(), NewResultCache(repository.NewMemoryCache(), 0, nil), nil)

	res, err := svc.Prequalify(context.Background(), domain.PrequalInput{
		GrossMonthlyIncome:       d("8000"),
		MonthlyDebts:             d("500"),
		DownPaymentAmount:        d("20000"),
		InterestRatePercent:      d("6"),
		LoanTermMonths:           360,
		TaxesAndInsuranceMonthly: d("400"),
	})
	require.NoError(t, err)
	assert.True(t, res.Qualified)
	assertDecimal(t, "2240", res.MaxMonthlyPayment)
	assertDecimal(t, "326896.57", res.MaxPurchasePrice)
}

func TestNetSheetService_Compute(t *testing.T) {
	svc := NewNetSheetService(newEngine(), nil, nil)

	res, err := svc.Compute(context.Background(), domain.NetSheetInput{
		SalePrice:             d("400000"),
		MortgagePayoff:        d("250000"),
		CommissionRatePercent: d("6"),
		ClosingCosts:          map[string]decimal.Decimal{"Closing": d("5000")},
	})
	require.NoError(t, err)
	assertDecimal(t, "121000", res.NetProceeds)

	_, err = svc.Compute(context.Background(), domain.NetSheetInput{SalePrice: d("1"), Location: "atlantis"})
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}
