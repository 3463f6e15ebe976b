package repository

import (
	"context"
	"errors"

	"github.com/beconsistent/consistent-api/internal/model"
)

// ErrNoDocuments is returned when a lookup, update or delete matches
// nothing. Repositories translate driver-specific sentinels into this
// one so services never import the driver.
var ErrNoDocuments = errors.New("no documents found")

// ErrDuplicateKey is returned when an insert collides with a unique
// index, e.g. two registrations racing on the same email.
var ErrDuplicateKey = errors.New("duplicate key")

type TaskListFilter struct {
	OwnerKey       string
	Date           string // exact day-key; mutually exclusive with FromDate/ToDate
	FromDate       string // inclusive day-key lower bound
	ToDate         string // exclusive day-key upper bound
	OnlyIncomplete bool
}

type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	CreateMany(ctx context.Context, tasks []model.Task) (int, error)
	GetByID(ctx context.Context, ownerKey, taskID string) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, ownerKey, taskID string) error
	List(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	// ListByMonthPrefix selects every task whose day-key starts with the
	// given "YYYY-MM" string. Looser than interval containment; used only
	// by the monthly digest.
	ListByMonthPrefix(ctx context.Context, ownerKey, yearMonth string) ([]model.Task, error)
}
