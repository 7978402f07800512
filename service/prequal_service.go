package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
)

type PrequalService struct {
	engine *calculator.Engine
	cache  *ResultCache
	logger *zap.Logger
}

func NewPrequalService(engine *calculator.Engine, cache *ResultCache, logger *zap.Logger) *PrequalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrequalService{engine: engine, cache: cache, logger: logger}
}

func (s *PrequalService) Prequalify(ctx context.Context, input domain.PrequalInput) (domain.PrequalResult, error) {
	result, err := cached(ctx, s.cache, "prequal", input, func() (domain.PrequalResult, error) {
		return s.engine.Prequalify(input)
	})
	if err != nil {
		return domain.PrequalResult{}, fmt.Errorf("prequalify: %w", err)
	}
	if !result.Qualified {
		s.logger.Debug("buyer does not qualify", zap.String("reason", result.Reason))
	}
	return result, nil
}
