package http

import (
	"net/http"

	"go.uber.org/zap"

	"realty-calc/domain"
	"realty-calc/service"
)

type ComparableHandler struct {
	service *service.ComparableService
	logger  *zap.Logger
}

func NewComparableHandler(service *service.ComparableService, logger *zap.Logger) *ComparableHandler {
	return &ComparableHandler{service: service, logger: orNop(logger)}
}

type saveComparableRequest struct {
	Location   string            `json:"location"`
	Comparable domain.Comparable `json:"comparable"`
}

// Collection handles GET and POST /comparables.
func (h *ComparableHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.service.List(r.Context(), r.URL.Query().Get("location"))
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, list)
	case http.MethodPost:
		var req saveComparableRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		saved, err := h.service.Save(r.Context(), req.Location, req.Comparable)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusCreated, saved)
	default:
		writeError(w, h.logger, errMethodNotAllowed)
	}
}

// Delete handles DELETE /comparables/{id}.
func (h *ComparableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
