package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"realty-calc/domain"
)

// SellerReportService chains a CMA into net sheets so a seller sees
// proceeds across the estimated value range.
type SellerReportService struct {
	cma       *CMAService
	netSheets *NetSheetService
	logger    *zap.Logger
}

func NewSellerReportService(cma *CMAService, netSheets *NetSheetService, logger *zap.Logger) *SellerReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SellerReportService{cma: cma, netSheets: netSheets, logger: logger}
}

// Build ignores the net sheet input's sale price; each sheet uses a
// price from the CMA.
func (s *SellerReportService) Build(ctx context.Context, input domain.SellerReportInput) (domain.SellerReport, error) {
	estimate, err := s.cma.Estimate(ctx, input.CMA)
	if err != nil {
		return domain.SellerReport{}, fmt.Errorf("seller report: %w", err)
	}

	sheetAt := func(price decimal.Decimal) (domain.NetSheetResult, error) {
		in := input.NetSheet
		in.SalePrice = price
		return s.netSheets.Compute(ctx, in)
	}

	report := domain.SellerReport{CMA: estimate}
	if report.AtLow, err = sheetAt(estimate.ValueRangeLow); err != nil {
		return domain.SellerReport{}, fmt.Errorf("seller report: %w", err)
	}
	if report.AtEstimate, err = sheetAt(estimate.EstimatedValue); err != nil {
		return domain.SellerReport{}, fmt.Errorf("seller report: %w", err)
	}
	if report.AtHigh, err = sheetAt(estimate.ValueRangeHigh); err != nil {
		return domain.SellerReport{}, fmt.Errorf("seller report: %w", err)
	}

	s.logger.Debug("built seller report",
		zap.String("estimate", estimate.EstimatedValue.String()),
		zap.String("net_at_estimate", report.AtEstimate.NetProceeds.String()))
	return report, nil
}
