package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
)

type LoanService struct {
	engine *calculator.Engine
	cache  *ResultCache
	logger *zap.Logger
}

// NewLoanService creates a new LoanService backed by engine.
func NewLoanService(engine *calculator.Engine, cache *ResultCache, logger *zap.Logger) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{engine: engine, cache: cache, logger: logger}
}

// Amortize computes the payment and schedule for the financed part of
// input.
func (s *LoanService) Amortize(ctx context.Context, input domain.LoanInput) (domain.AmortizationResult, error) {
	result, err := cached(ctx, s.cache, "amortize", input, func() (domain.AmortizationResult, error) {
		return s.engine.AmortizeLoan(input)
	})
	if err != nil {
		return domain.AmortizationResult{}, fmt.Errorf("amortize: %w", err)
	}
	s.logger.Debug("amortized loan",
		zap.String("principal", result.Principal.String()),
		zap.Int("term_months", input.TermMonths),
		zap.String("monthly_payment", result.MonthlyPayment.String()))
	return result, nil
}
