package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/beconsistent/consistent-api/internal/service"
	"github.com/beconsistent/consistent-api/internal/verify"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// handleServiceError maps domain errors onto HTTP statuses. Transient
// external-service failures become 502 so interactive callers can tell
// them apart from their own mistakes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials or token")
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrMailDelivery):
		WriteError(w, http.StatusBadGateway, "MAIL_FAILED", "failed to send email")
	case errors.Is(err, verify.ErrCodePending):
		WriteError(w, http.StatusTooManyRequests, "CODE_PENDING", "a code was already sent, wait before requesting again")
	case errors.Is(err, verify.ErrCodeInvalid):
		WriteError(w, http.StatusBadRequest, "CODE_INVALID", "code verification failed")
	case errors.Is(err, verify.ErrDeliveryFailed):
		WriteError(w, http.StatusBadGateway, "MAIL_FAILED", "failed to send email")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
