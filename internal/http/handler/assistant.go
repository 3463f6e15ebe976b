package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beconsistent/consistent-api/internal/assistant"
)

type AssistantHandler struct {
	svc    *assistant.Service
	logger *slog.Logger
}

// NewAssistantHandler accepts a nil service; the endpoint then answers
// 503 instead of being absent, so clients get a clear signal when no
// chat backend is configured.
func NewAssistantHandler(svc *assistant.Service, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{svc: svc, logger: logger}
}

type assistantRequest struct {
	Email string `json:"email"`
	Query string `json:"query"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

func (h *AssistantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	if h.svc == nil {
		WriteError(w, http.StatusServiceUnavailable, "ASSISTANT_DISABLED", "assistant is not configured")
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "query is required")
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.Email, req.Query)
	if err != nil {
		h.logger.Error("assistant request failed", "owner", req.Email, "error", err)
		WriteError(w, http.StatusBadGateway, "ASSISTANT_FAILED", "assistant request failed")
		return
	}

	WriteJSON(w, http.StatusOK, assistantResponse{Answer: answer})
}
