package http

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/service"
)

const maxBodyBytes = 1 << 20

// Envelope wraps every successful calculation response.
type Envelope struct {
	CalculationID string `json:"calculation_id"`
	CalculatedAt  string `json:"calculated_at"`
	Result        any    `json:"result"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// requestError is a problem with the request itself rather than its
// values.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

var errMethodNotAllowed = &requestError{status: http.StatusMethodNotAllowed, message: "method not allowed"}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return &requestError{status: http.StatusUnsupportedMediaType, message: "content type must be application/json"}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &requestError{status: http.StatusRequestEntityTooLarge, message: "request body too large"}
		}
		return &requestError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", zap.Error(err))
		http.Error(w, `{"status":500,"message":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.Debug("write response", zap.Error(err))
	}
}

func writeResult(w http.ResponseWriter, logger *zap.Logger, result any) {
	writeJSON(w, logger, http.StatusOK, Envelope{
		CalculationID: uuid.NewString(),
		CalculatedAt:  time.Now().UTC().Format(time.RFC3339),
		Result:        result,
	})
}

// writeError maps err to a status code. Only invalid input and request
// problems expose their message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		reqErr   *requestError
		inputErr *calculator.InputError
	)
	resp := ErrorResponse{Status: http.StatusInternalServerError, Message: "internal error"}

	switch {
	case errors.As(err, &reqErr):
		resp.Status = reqErr.status
		resp.Message = reqErr.message
	case errors.As(err, &inputErr):
		resp.Status = http.StatusBadRequest
		resp.Message = inputErr.Error()
		resp.Field = inputErr.Field
	case errors.Is(err, calculator.ErrInvalidInput):
		resp.Status = http.StatusBadRequest
		resp.Message = err.Error()
	case errors.Is(err, service.ErrComparableNotFound):
		resp.Status = http.StatusNotFound
		resp.Message = err.Error()
	default:
		logger.Error("request failed", zap.Error(err))
	}

	if resp.Status < http.StatusInternalServerError {
		logger.Debug("rejected request", zap.Int("status", resp.Status), zap.String("message", resp.Message))
	}
	writeJSON(w, logger, resp.Status, resp)
}

func queryFlag(r *http.Request, name string, def bool) bool {
	switch r.URL.Query().Get(name) {
	case "false", "0", "no":
		return false
	case "true", "1", "yes":
		return true
	default:
		return def
	}
}
