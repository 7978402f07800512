package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/calculator"
	"realty-calc/domain"
)

func termInput(preference string, terms ...int) domain.TermComparisonInput {
	return domain.TermComparisonInput{
		Amount:                    d("200000"),
		AnnualInterestRatePercent: d("6"),
		TermsMonths:               terms,
		Preference:                preference,
	}
}

func TestCompareTerms_Preferences(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), nil, nil)

	cases := []struct {
		preference string
		want       int
		topScore   string
	}{
		{domain.PreferenceMinimizeInterest, 180, "8"},
		{domain.PreferenceMinimizePayment, 360, "6"},
		{domain.PreferenceBalanced, 180, "6"},
	}

	for _, tc := range cases {
		t.Run(tc.preference, func(t *testing.T) {
			res, err := svc.CompareTerms(context.Background(), termInput(tc.preference, 360, 180))
			require.NoError(t, err)

			assert.Equal(t, tc.want, res.RecommendedTerm)
			require.Len(t, res.Options, 2)
			assert.Equal(t, tc.want, res.Options[0].TermMonths)
			assertDecimal(t, tc.topScore, res.Options[0].Score)
			assert.True(t, res.Options[0].Score.GreaterThanOrEqual(res.Options[1].Score))
		})
	}
}

func TestCompareTerms_ShorterTermCostsLessInterest(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), nil, nil)

	res, err := svc.CompareTerms(context.Background(), termInput("", 120, 180, 240, 300, 360, 180))
	require.NoError(t, err)
	require.Len(t, res.Options, 5)

	byTerm := map[int]domain.TermOption{}
	for _, o := range res.Options {
		byTerm[o.TermMonths] = o
	}
	terms := []int{120, 180, 240, 300, 360}
	for i := 1; i < len(terms); i++ {
		shorter, longer := byTerm[terms[i-1]], byTerm[terms[i]]
		assert.True(t, shorter.TotalInterest.LessThan(longer.TotalInterest))
		assert.True(t, shorter.MonthlyPayment.GreaterThan(longer.MonthlyPayment))
	}
	assertDecimal(t, "1199.10", byTerm[360].MonthlyPayment)
}

func TestCompareTerms_MaxMonthlyPaymentFilters(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), nil, nil)

	in := termInput(domain.PreferenceMinimizeInterest, 180, 360)
	in.MaxMonthlyPayment = decimal.NewNullDecimal(d("1500"))

	res, err := svc.CompareTerms(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Options, 1)
	assert.Equal(t, 360, res.RecommendedTerm)
	assertDecimal(t, "10", res.Options[0].Score)

	in.MaxMonthlyPayment = decimal.NewNullDecimal(d("500"))
	_, err = svc.CompareTerms(context.Background(), in)
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestCompareTerms_FallbackReason(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), NewAIService(AdvisorConfig{}, nil), nil)

	res, err := svc.CompareTerms(context.Background(), termInput(domain.PreferenceMinimizePayment, 180, 360))
	require.NoError(t, err)
	assert.Contains(t, res.Options[0].Reason, "360-month term")
	assert.Equal(t, "Term chosen to minimize total interest", reasonFor(domain.PreferenceMinimizeInterest))
	assert.Regexp(t, `^Monthly payment \+\d+\.\d{2} and total interest -\d+\.\d{2} versus the recommended 360-month term$`, res.Options[1].Reason)
}

func TestCompareTerms_OnlyRecommendedTermIsChosen(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), nil, nil)

	res, err := svc.CompareTerms(context.Background(), termInput(domain.PreferenceMinimizeInterest, 120, 180, 360))
	require.NoError(t, err)
	require.Len(t, res.Options, 3)

	assert.Equal(t, "Term chosen to minimize total interest", res.Options[0].Reason)
	for _, o := range res.Options[1:] {
		assert.NotContains(t, o.Reason, "chosen")
		assert.Contains(t, o.Reason, fmt.Sprintf("recommended %d-month term", res.RecommendedTerm))
	}
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, "+12.50", signedAmount(d("12.5")))
	assert.Equal(t, "-3.00", signedAmount(d("-3")))
	assert.Equal(t, "+0.00", signedAmount(decimal.Zero))
}

func TestCompareTerms_InvalidInput(t *testing.T) {
	svc := NewTermRecommendationService(newEngine(), nil, nil)

	many := make([]int, MaxComparedTerms+1)
	for i := range many {
		many[i] = i + 1
	}

	cases := []struct {
		name  string
		input domain.TermComparisonInput
	}{
		{"unknown preference", termInput("cheapest", 360)},
		{"no terms", termInput(domain.PreferenceBalanced)},
		{"too many terms", termInput(domain.PreferenceBalanced, many...)},
		{"term out of range", termInput(domain.PreferenceBalanced, 180, 0)},
		{"negative amount", domain.TermComparisonInput{Amount: d("-1"), AnnualInterestRatePercent: d("6"), TermsMonths: []int{360}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CompareTerms(context.Background(), tc.input)
			assert.ErrorIs(t, err, calculator.ErrInvalidInput)
		})
	}
}
