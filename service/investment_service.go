package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
)

type InvestmentService struct {
	engine  *calculator.Engine
	cache   *ResultCache
	advisor *AIService
	logger  *zap.Logger
}

func NewInvestmentService(engine *calculator.Engine, cache *ResultCache, advisor *AIService, logger *zap.Logger) *InvestmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentService{engine: engine, cache: cache, advisor: advisor, logger: logger}
}

// Analyze runs the investment analysis. With explain set and an advisor
// configured the result carries a plain-language summary; summaries are
// never cached.
func (s *InvestmentService) Analyze(ctx context.Context, input domain.InvestmentInput, explain bool) (domain.InvestmentResult, error) {
	result, err := cached(ctx, s.cache, "investment", input, func() (domain.InvestmentResult, error) {
		return s.engine.AnalyzeInvestment(input)
	})
	if err != nil {
		return domain.InvestmentResult{}, fmt.Errorf("analyze investment: %w", err)
	}
	if explain && s.advisor != nil {
		result.Explanation = s.advisor.ExplainInvestment(ctx, input, result)
	}
	return result, nil
}
