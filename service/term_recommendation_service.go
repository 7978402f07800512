package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"realty-calc/calculator"
	"realty-calc/domain"
)

var (
	ten = decimal.NewFromInt(10)

	// Weights of the interest, payment and term scores per preference.
	preferenceWeights = map[string][3]decimal.Decimal{
		domain.PreferenceMinimizeInterest: {decimal.RequireFromString("0.6"), decimal.RequireFromString("0.2"), decimal.RequireFromString("0.2")},
		domain.PreferenceMinimizePayment:  {decimal.RequireFromString("0.2"), decimal.RequireFromString("0.6"), decimal.RequireFromString("0.2")},
		domain.PreferenceBalanced:         {decimal.RequireFromString("0.4"), decimal.RequireFromString("0.4"), decimal.RequireFromString("0.2")},
	}
)

type TermRecommendationService struct {
	engine  *calculator.Engine
	advisor *AIService
	logger  *zap.Logger
}

func NewTermRecommendationService(engine *calculator.Engine, advisor *AIService, logger *zap.Logger) *TermRecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermRecommendationService{engine: engine, advisor: advisor, logger: logger}
}

// CompareTerms amortizes the loan over each candidate term, drops terms
// whose payment exceeds the cap and ranks the rest by preference.
func (s *TermRecommendationService) CompareTerms(
	ctx context.Context,
	input domain.TermComparisonInput,
) (domain.TermComparisonResult, error) {
	if input.Preference == "" {
		input.Preference = domain.PreferenceBalanced
	}
	weights, ok := preferenceWeights[input.Preference]
	if !ok {
		return domain.TermComparisonResult{}, &calculator.InputError{Field: "preference", Message: "must be minimize_interest, minimize_payment or balanced"}
	}
	terms := uniqueTerms(input.TermsMonths)
	if len(terms) == 0 {
		return domain.TermComparisonResult{}, &calculator.InputError{Field: "terms_months", Message: "must name at least one term"}
	}
	if len(terms) > MaxComparedTerms {
		return domain.TermComparisonResult{}, &calculator.InputError{Field: "terms_months", Message: fmt.Sprintf("must name at most %d terms", MaxComparedTerms)}
	}
	if input.MaxMonthlyPayment.Valid && !input.MaxMonthlyPayment.Decimal.IsPositive() {
		return domain.TermComparisonResult{}, &calculator.InputError{Field: "max_monthly_payment", Message: "must be greater than zero"}
	}

	results := make([]domain.AmortizationResult, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(TermComparisonWorkers)
	for i, term := range terms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.engine.Amortize(input.Amount, input.AnnualInterestRatePercent, term)
			if err != nil {
				return err
			}
			res.Schedule = nil
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TermComparisonResult{}, fmt.Errorf("compare terms: %w", err)
	}

	options := make([]domain.TermOption, 0, len(terms))
	for i, res := range results {
		if input.MaxMonthlyPayment.Valid && res.MonthlyPayment.GreaterThan(input.MaxMonthlyPayment.Decimal) {
			continue
		}
		options = append(options, domain.TermOption{
			TermMonths:     terms[i],
			MonthlyPayment: res.MonthlyPayment,
			TotalInterest:  res.TotalInterest,
		})
	}
	if len(options) == 0 {
		return domain.TermComparisonResult{}, &calculator.InputError{Field: "max_monthly_payment", Message: "no term has a payment within the maximum"}
	}

	scoreOptions(options, weights)
	sort.SliceStable(options, func(i, j int) bool {
		if !options[i].Score.Equal(options[j].Score) {
			return options[i].Score.GreaterThan(options[j].Score)
		}
		return options[i].TermMonths < options[j].TermMonths
	})

	options[0].Reason = reasonFor(input.Preference)
	for i := range options[1:] {
		options[i+1].Reason = comparedTo(options[i+1], options[0])
	}
	if s.advisor != nil {
		options[0].Reason = s.advisor.ExplainTermRecommendation(ctx, input, options)
	}

	s.logger.Debug("compared terms",
		zap.Int("candidates", len(terms)),
		zap.Int("eligible", len(options)),
		zap.Int("recommended_term", options[0].TermMonths))

	return domain.TermComparisonResult{
		RecommendedTerm: options[0].TermMonths,
		Options:         options,
	}, nil
}

// scoreOptions rates each option from 0 to 10 on interest, payment and
// term length relative to the other options and combines the three
// with weights.
func scoreOptions(options []domain.TermOption, weights [3]decimal.Decimal) {
	minInterest, maxInterest := options[0].TotalInterest, options[0].TotalInterest
	minPayment, maxPayment := options[0].MonthlyPayment, options[0].MonthlyPayment
	minTerm, maxTerm := options[0].TermMonths, options[0].TermMonths
	for _, o := range options[1:] {
		minInterest = decimal.Min(minInterest, o.TotalInterest)
		maxInterest = decimal.Max(maxInterest, o.TotalInterest)
		minPayment = decimal.Min(minPayment, o.MonthlyPayment)
		maxPayment = decimal.Max(maxPayment, o.MonthlyPayment)
		minTerm = min(minTerm, o.TermMonths)
		maxTerm = max(maxTerm, o.TermMonths)
	}

	for i, o := range options {
		interestScore := closeness(o.TotalInterest, minInterest, maxInterest)
		paymentScore := closeness(o.MonthlyPayment, minPayment, maxPayment)
		termScore := closeness(decimal.NewFromInt(int64(o.TermMonths)), decimal.NewFromInt(int64(minTerm)), decimal.NewFromInt(int64(maxTerm)))

		score := weights[0].Mul(interestScore).
			Add(weights[1].Mul(paymentScore)).
			Add(weights[2].Mul(termScore))
		options[i].Score = score.Round(2)
	}
}

// closeness is 10 at the low end of [lo, hi] and 0 at the high end.
func closeness(v, lo, hi decimal.Decimal) decimal.Decimal {
	span := hi.Sub(lo)
	if span.IsZero() {
		return ten
	}
	return ten.Mul(hi.Sub(v)).DivRound(span, 6)
}

func uniqueTerms(terms []int) []int {
	seen := make(map[int]bool, len(terms))
	out := make([]int, 0, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func reasonFor(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Term chosen to minimize total interest"
	case domain.PreferenceMinimizePayment:
		return "Term chosen to minimize the monthly payment"
	default:
		return "Balance between monthly payment and total interest"
	}
}

// comparedTo describes an option relative to the recommended one.
func comparedTo(o, best domain.TermOption) string {
	return fmt.Sprintf("Monthly payment %s and total interest %s versus the recommended %d-month term",
		signedAmount(o.MonthlyPayment.Sub(best.MonthlyPayment)),
		signedAmount(o.TotalInterest.Sub(best.TotalInterest)),
		best.TermMonths)
}

func signedAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + d.Abs().StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
