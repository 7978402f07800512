package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
)

type CMAService struct {
	engine      *calculator.Engine
	cache       *ResultCache
	comparables *ComparableService
	logger      *zap.Logger
}

// NewCMAService creates a CMAService. comparables may be nil, in which
// case requests naming a comparables location use inline comparables
// only.
func NewCMAService(engine *calculator.Engine, cache *ResultCache, comparables *ComparableService, logger *zap.Logger) *CMAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CMAService{engine: engine, cache: cache, comparables: comparables, logger: logger}
}

// Estimate values the subject from the inline comparables plus any
// saved under the request's comparables location.
func (s *CMAService) Estimate(ctx context.Context, req domain.CMARequest) (domain.CMAResult, error) {
	input := req.CMAInput
	if req.ComparablesLocation != "" && s.comparables != nil {
		saved, err := s.comparables.forLocation(ctx, req.ComparablesLocation)
		if err != nil {
			return domain.CMAResult{}, err
		}
		merged := make([]domain.Comparable, 0, len(input.Comparables)+len(saved))
		merged = append(merged, input.Comparables...)
		merged = append(merged, saved...)
		input.Comparables = merged
		s.logger.Debug("merged saved comparables",
			zap.String("location", req.ComparablesLocation),
			zap.Int("saved", len(saved)),
			zap.Int("total", len(merged)))
	}

	result, err := cached(ctx, s.cache, "cma", input, func() (domain.CMAResult, error) {
		return s.engine.EstimateValue(input)
	})
	if err != nil {
		return domain.CMAResult{}, fmt.Errorf("estimate value: %w", err)
	}
	return result, nil
}
