package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartpay/internal/core"
	"smartpay/internal/services"
)

// PersistWarningHeader is set when a mutation held in memory but was not saved.
const PersistWarningHeader = "X-Persist-Warning"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// PaymentResponse is the body of a successful mutation.
type PaymentResponse struct {
	Payment services.BoardItem `json:"payment"`
	Warning string             `json:"warning,omitempty"`
}

// ListResponse is the board plus the creation gate.
type ListResponse struct {
	services.Board
	CanCreate bool `json:"can_create"`
	FreeLimit int  `json:"free_limit"`
}

// NotificationResponse previews the reminder that would be sent now.
type NotificationResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`
	Count   int    `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// persistWarning returns the warning text for a receipt, or "".
func persistWarning(r services.Receipt) string {
	if r.SaveErr == nil {
		return ""
	}
	return "changes not saved: " + r.SaveErr.Error()
}

// setPersistWarning mirrors the receipt's save failure in a header.
func setPersistWarning(w http.ResponseWriter, r services.Receipt) string {
	warning := persistWarning(r)
	if warning != "" {
		w.Header().Set(PersistWarningHeader, warning)
	}
	return warning
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrStaleIndex):
		return http.StatusNotFound
	case errors.Is(err, core.ErrLimitReached):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError replies with the status and field of err.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
