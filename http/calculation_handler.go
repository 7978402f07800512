package http

import (
	"net/http"

	"go.uber.org/zap"

	"realty-calc/domain"
	"realty-calc/service"
)

// CalculationHandler serves the buyer, investor and seller calculators.
type CalculationHandler struct {
	prequal    *service.PrequalService
	investment *service.InvestmentService
	netSheet   *service.NetSheetService
	cma        *service.CMAService
	report     *service.SellerReportService
	logger     *zap.Logger
}

func NewCalculationHandler(
	prequal *service.PrequalService,
	investment *service.InvestmentService,
	netSheet *service.NetSheetService,
	cma *service.CMAService,
	report *service.SellerReportService,
	logger *zap.Logger,
) *CalculationHandler {
	return &CalculationHandler{
		prequal:    prequal,
		investment: investment,
		netSheet:   netSheet,
		cma:        cma,
		report:     report,
		logger:     orNop(logger),
	}
}

func (h *CalculationHandler) Prequalify(w http.ResponseWriter, r *http.Request) {
	var input domain.PrequalInput
	if !h.decodePost(w, r, &input) {
		return
	}
	result, err := h.prequal.Prequalify(r.Context(), input)
	h.respond(w, result, err)
}

// AnalyzeInvestment handles POST /investment/analyze. ?explain=false
// skips the narrative summary.
func (h *CalculationHandler) AnalyzeInvestment(w http.ResponseWriter, r *http.Request) {
	var input domain.InvestmentInput
	if !h.decodePost(w, r, &input) {
		return
	}
	result, err := h.investment.Analyze(r.Context(), input, queryFlag(r, "explain", true))
	h.respond(w, result, err)
}

func (h *CalculationHandler) ComputeNetSheet(w http.ResponseWriter, r *http.Request) {
	var input domain.NetSheetInput
	if !h.decodePost(w, r, &input) {
		return
	}
	result, err := h.netSheet.Compute(r.Context(), input)
	h.respond(w, result, err)
}

func (h *CalculationHandler) EstimateValue(w http.ResponseWriter, r *http.Request) {
	var input domain.CMARequest
	if !h.decodePost(w, r, &input) {
		return
	}
	result, err := h.cma.Estimate(r.Context(), input)
	h.respond(w, result, err)
}

func (h *CalculationHandler) SellerReport(w http.ResponseWriter, r *http.Request) {
	var input domain.SellerReportInput
	if !h.decodePost(w, r, &input) {
		return
	}
	result, err := h.report.Build(r.Context(), input)
	h.respond(w, result, err)
}

func (h *CalculationHandler) decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, errMethodNotAllowed)
		return false
	}
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, h.logger, err)
		return false
	}
	return true
}

func (h *CalculationHandler) respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, h.logger, result)
}
