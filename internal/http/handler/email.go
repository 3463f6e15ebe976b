package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/beconsistent/consistent-api/internal/mail"
)

// EmailHandler exposes the raw send endpoint the client uses for ad-hoc
// notifications.
type EmailHandler struct {
	mailer mail.Sender
	logger *slog.Logger
}

func NewEmailHandler(mailer mail.Sender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{mailer: mailer, logger: logger}
}

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

func (h *EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.To == "" || req.Subject == "" || (req.Text == "" && req.HTML == "") {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "to, subject and a text or html body are required")
		return
	}

	if err := h.mailer.Send(r.Context(), req.To, req.Subject, req.Text, req.HTML); err != nil {
		h.logger.Error("email send failed", "to", req.To, "error", err)
		WriteError(w, http.StatusBadGateway, "MAIL_FAILED", "failed to send email")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "email sent"})
}
