package users

import (
	"context"
	"time"
)

type Repository interface {
	// Create stores user. A taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *User) (*User, error)
	// GetUserByLogin yields common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, userName string) (*User, error)
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}
