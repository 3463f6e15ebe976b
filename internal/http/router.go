package http

import (
	"log/slog"
	"net/http"

	"github.com/beconsistent/consistent-api/internal/assistant"
	"github.com/beconsistent/consistent-api/internal/http/handler"
	"github.com/beconsistent/consistent-api/internal/mail"
	"github.com/beconsistent/consistent-api/internal/service"
	"github.com/beconsistent/consistent-api/internal/verify"
)

type RouterDeps struct {
	Tasks     *service.TaskService
	Users     *service.UserService
	Verify    *verify.Service
	Assistant *assistant.Service // nil disables the endpoint
	Mailer    mail.Sender
	Logger    *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for LB health check compatibility
	mux.Handle("/health", handler.NewHealthHandler())

	taskHandler := handler.NewTaskHandler(deps.Tasks)
	mux.Handle("/api/v1/tasks", taskHandler)
	mux.Handle("/api/v1/tasks/", taskHandler)

	userHandler := handler.NewUserHandler(deps.Users)
	mux.Handle("/api/v1/users", userHandler)
	mux.Handle("/api/v1/users/", userHandler)

	mux.Handle("/api/v1/verify/", handler.NewVerifyHandler(deps.Verify))

	mux.Handle("/api/v1/email/send", handler.NewEmailHandler(deps.Mailer, deps.Logger))
	mux.Handle("/api/v1/assistant", handler.NewAssistantHandler(deps.Assistant, deps.Logger))

	return mux
}
