package http

import (
	"net/http"

	"go.uber.org/zap"

	"realty-calc/domain"
	"realty-calc/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *zap.Logger
}

func NewLoanHandler(service *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{service: service, logger: orNop(logger)}
}

// Amortize handles POST /loan/amortize. ?schedule=false omits the
// period-by-period schedule.
func (h *LoanHandler) Amortize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, errMethodNotAllowed)
		return
	}

	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.service.Amortize(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !queryFlag(r, "schedule", true) {
		result.Schedule = nil
	}
	writeResult(w, h.logger, result)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
