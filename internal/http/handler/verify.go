package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/beconsistent/consistent-api/internal/verify"
)

type VerifyHandler struct {
	svc *verify.Service
}

func NewVerifyHandler(svc *verify.Service) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

// ServeHTTP routes /api/v1/verify/* requests.
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/verify/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "send-code":
		h.handleSendCode(w, r)
	case "verify-code":
		h.handleVerifyCode(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

func (h *VerifyHandler) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "email is required")
		return
	}

	if err := h.svc.SendCode(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	// The code travels by mail only, never in the response.
	WriteJSON(w, http.StatusOK, map[string]string{"message": "code sent to email"})
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *VerifyHandler) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Email == "" || req.Code == "" {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "email and code are required")
		return
	}

	if err := h.svc.VerifyCode(req.Email, strings.TrimSpace(req.Code)); err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"verified": true})
}
