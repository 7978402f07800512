package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
)

type NetSheetService struct {
	engine *calculator.Engine
	cache  *ResultCache
	logger *zap.Logger
}

func NewNetSheetService(engine *calculator.Engine, cache *ResultCache, logger *zap.Logger) *NetSheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetSheetService{engine: engine, cache: cache, logger: logger}
}

func (s *NetSheetService) Compute(ctx context.Context, input domain.NetSheetInput) (domain.NetSheetResult, error) {
	result, err := cached(ctx, s.cache, "netsheet", input, func() (domain.NetSheetResult, error) {
		return s.engine.ComputeNetSheet(input)
	})
	if err != nil {
		return domain.NetSheetResult{}, fmt.Errorf("net sheet: %w", err)
	}
	if result.NetProceeds.IsNegative() {
		s.logger.Debug("net sheet shows a shortfall", zap.String("net_proceeds", result.NetProceeds.String()))
	}
	return result, nil
}
