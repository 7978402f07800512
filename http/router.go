package http

import (
	"net/http"

	"go.uber.org/zap"
)

type Handlers struct {
	Loan        *LoanHandler
	Terms       *TermRecommendationHandler
	Calculation *CalculationHandler
	Comparables *ComparableHandler
}

// NewRouter registers every route. Calculation routes share limiter
// when it is not nil; all routes are logged.
func NewRouter(h Handlers, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	limited := func(path string, fn http.HandlerFunc) {
		if limiter == nil {
			mux.Handle(path, fn)
			return
		}
		mux.Handle(path, RateLimitMiddleware(limiter, logger, fn))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, orNop(logger), errMethodNotAllowed)
			return
		}
		writeJSON(w, orNop(logger), http.StatusOK, map[string]string{"status": "ok"})
	})

	limited("/loan/amortize", h.Loan.Amortize)
	limited("/loan/compare-terms", h.Terms.CompareTerms)
	limited("/prequal", h.Calculation.Prequalify)
	limited("/investment/analyze", h.Calculation.AnalyzeInvestment)
	limited("/netsheet", h.Calculation.ComputeNetSheet)
	limited("/cma/estimate", h.Calculation.EstimateValue)
	limited("/seller/report", h.Calculation.SellerReport)

	mux.HandleFunc("/comparables", h.Comparables.Collection)
	mux.HandleFunc("DELETE /comparables/{id}", h.Comparables.Delete)

	return LoggingMiddleware(logger, mux)
}
