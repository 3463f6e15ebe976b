package repository

import (
	"context"

	"github.com/beconsistent/consistent-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// UpdateByEmail merges the non-nil fields of upd into the stored user
	// and returns the result.
	UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.User, error)
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
	// FindByNotifyTime returns every user whose reminder or report time
	// equals hhmm.
	FindByNotifyTime(ctx context.Context, hhmm string) ([]model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}
