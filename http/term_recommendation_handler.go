package http

import (
	"net/http"

	"go.uber.org/zap"

	"realty-calc/domain"
	"realty-calc/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	logger  *zap.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, logger *zap.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service, logger: orNop(logger)}
}

func (h *TermRecommendationHandler) CompareTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, errMethodNotAllowed)
		return
	}

	var input domain.TermComparisonInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.service.CompareTerms(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, h.logger, result)
}
