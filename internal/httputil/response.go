package httputil

import (
	"encoding/json"
	"net/http"

	"jumewears/internal/model"
)

// Machine-readable error codes returned in the standard error envelope.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the envelope every non-form error is wrapped in.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DetailResponse is the single-message validation shape the comment API
// uses: {"detail": "..."}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldErrorsResponse is the per-field validation shape the bulk-order
// forms render beneath each input: {"errors": {"field": ["msg", ...]}}.
type FieldErrorsResponse struct {
	Errors model.FieldErrors `json:"errors"`
}

// WriteJSON encodes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already written, so an encode error can only be dropped.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes {"error": {"code": ..., "message": ...}}.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteDetail writes a 400 with a single human-readable detail message.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, DetailResponse{Detail: detail})
}

// WriteFieldErrors writes a 400 with per-field validation messages.
func WriteFieldErrors(w http.ResponseWriter, fe model.FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, FieldErrorsResponse{Errors: fe})
}

// WriteCartStatus writes the cart contract body: {"status": ..., "cartCount": N}.
func WriteCartStatus(w http.ResponseWriter, status int, body model.CartStatusResponse) {
	WriteJSON(w, status, body)
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, ErrCodeConflict, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
