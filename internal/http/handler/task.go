package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/beconsistent/consistent-api/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/v1/tasks and its subpaths. Reads are keyed by
// date + owner, matching how the calendar UI queries; writes are keyed
// by task id + owner.
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")

	switch parts[0] {
	case "copy-incomplete":
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleCopyIncomplete(w, r)
		return
	case "monthly":
		h.requireMonthPair(w, r, parts, h.handleMonthlyPercentages)
		return
	case "summary":
		h.requireMonthPair(w, r, parts, h.handleMonthlySummary)
		return
	case "incomplete":
		if len(parts) != 3 || r.Method != http.MethodGet {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
			return
		}
		h.handleListByDay(w, r, parts[1], parts[2], true)
		return
	}

	// /{date}/{owner} daily listing
	if len(parts) == 2 && r.Method == http.MethodGet {
		h.handleListByDay(w, r, parts[0], parts[1], false)
		return
	}

	// /{id}/toggle
	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPatch {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleToggle(w, r, parts[0])
		return
	}

	// /{id}
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPut:
			h.handleUpdate(w, r, parts[0])
		case http.MethodDelete:
			h.handleDelete(w, r, parts[0])
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
}

func (h *TaskHandler) requireMonthPair(w http.ResponseWriter, r *http.Request, parts []string, fn func(http.ResponseWriter, *http.Request, string, string)) {
	if len(parts) != 3 || r.Method != http.MethodGet {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}
	fn(w, r, parts[1], parts[2])
}

type createTaskRequest struct {
	OwnerKey string `json:"owner_key"`
	Title    string `json:"title"`
	Date     string `json:"date"`
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.Create(r.Context(), service.CreateTaskInput{
		OwnerKey: req.OwnerKey,
		Title:    req.Title,
		Date:     req.Date,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	OwnerKey    string  `json:"owner_key"`
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, taskID string) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.Update(r.Context(), req.OwnerKey, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Date:        req.Date,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleToggle(w http.ResponseWriter, r *http.Request, taskID string) {
	owner := r.URL.Query().Get("owner_key")

	task, err := h.svc.ToggleComplete(r.Context(), owner, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	owner := r.URL.Query().Get("owner_key")

	if err := h.svc.Delete(r.Context(), owner, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) handleListByDay(w http.ResponseWriter, r *http.Request, day, owner string, onlyIncomplete bool) {
	tasks, err := h.svc.ListByDay(r.Context(), owner, day, onlyIncomplete)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tasks)
}

type copyIncompleteRequest struct {
	OwnerKey string `json:"owner_key"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

func (h *TaskHandler) handleCopyIncomplete(w http.ResponseWriter, r *http.Request) {
	var req copyIncompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	result, err := h.svc.CopyIncomplete(r.Context(), req.OwnerKey, req.FromDate, req.ToDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) handleMonthlyPercentages(w http.ResponseWriter, r *http.Request, month, owner string) {
	result, err := h.svc.MonthlyPercentages(r.Context(), owner, month)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) handleMonthlySummary(w http.ResponseWriter, r *http.Request, month, owner string) {
	result, err := h.svc.MonthlySummary(r.Context(), owner, month)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
