package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	apihttp "github.com/beconsistent/consistent-api/internal/http"
	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/repository"
	"github.com/beconsistent/consistent-api/internal/service"
	"github.com/beconsistent/consistent-api/internal/verify"
)

// mockTaskRepo for router tests
type mockTaskRepo struct{}

func (m *mockTaskRepo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	return task, nil
}
func (m *mockTaskRepo) CreateMany(ctx context.Context, tasks []model.Task) (int, error) {
	return len(tasks), nil
}
func (m *mockTaskRepo) GetByID(ctx context.Context, ownerKey, taskID string) (model.Task, error) {
	return model.Task{}, repository.ErrNoDocuments
}
func (m *mockTaskRepo) Update(ctx context.Context, task model.Task) (model.Task, error) {
	return task, nil
}
func (m *mockTaskRepo) Delete(ctx context.Context, ownerKey, taskID string) error {
	return nil
}
func (m *mockTaskRepo) List(ctx context.Context, filter repository.TaskListFilter) ([]model.Task, error) {
	return []model.Task{}, nil
}
func (m *mockTaskRepo) ListByMonthPrefix(ctx context.Context, ownerKey, yearMonth string) ([]model.Task, error) {
	return []model.Task{}, nil
}

// mockUserRepo for router tests
type mockUserRepo struct{}

func (m *mockUserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	return user, nil
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, repository.ErrNoDocuments
}
func (m *mockUserRepo) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.User, error) {
	return model.User{}, repository.ErrNoDocuments
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	return nil
}
func (m *mockUserRepo) FindByNotifyTime(ctx context.Context, hhmm string) ([]model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	return nil, nil
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	return nil
}

func newTestDeps() apihttp.RouterDeps {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := noopMailer{}
	return apihttp.RouterDeps{
		Tasks:  service.NewTaskService(&mockTaskRepo{}),
		Users:  service.NewUserService(&mockUserRepo{}, mailer, "test-secret", "http://localhost:3000"),
		Verify: verify.NewService(verify.NewCodeStore(), mailer),
		Mailer: mailer,
		Logger: logger,
	}
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := apihttp.NewRouter(newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_RoutesRegistered(t *testing.T) {
	router := apihttp.NewRouter(newTestDeps())

	// Each request only has to prove registration: no 404 from the mux.
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/tasks/2024-03-15/alice@example.com"},
		{http.MethodPost, "/api/v1/users/register"},
		{http.MethodPost, "/api/v1/verify/send-code"},
		{http.MethodPost, "/api/v1/email/send"},
		{http.MethodPost, "/api/v1/assistant"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound {
				t.Errorf("expected route to be registered, got 404 (body: %s)", w.Body.String())
			}
		})
	}
}

func TestRouter_AssistantDisabled(t *testing.T) {
	router := apihttp.NewRouter(newTestDeps())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// No assistant service wired in the test deps.
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := apihttp.NewRouter(newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
