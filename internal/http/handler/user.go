package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/service"
)

const maxUserBodySize = 1 << 20 // 1 MB

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ServeHTTP routes /api/v1/users/* requests. Fixed action paths come
// first; anything else is treated as an email key.
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/users")
	path = strings.Trim(path, "/")

	r.Body = http.MaxBytesReader(w, r.Body, maxUserBodySize)

	switch path {
	case "register":
		h.requirePost(w, r, h.handleRegister)
		return
	case "login":
		h.requirePost(w, r, h.handleLogin)
		return
	case "forgot-password":
		h.requirePost(w, r, h.handleForgotPassword)
		return
	case "reset-password":
		h.requirePost(w, r, h.handleResetPassword)
		return
	case "":
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	// /{email}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, path)
	case http.MethodPut:
		h.handleUpdate(w, r, path)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *UserHandler) requirePost(w http.ResponseWriter, r *http.Request, fn func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	fn(w, r)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	profile, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, profile)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	profile, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "password reset link sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request, email string) {
	profile, err := h.svc.GetByEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request, email string) {
	var upd model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	profile, err := h.svc.UpdateByEmail(r.Context(), email, upd)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}
