package userRepo

import (
	"context"
	"errors"

	"phms/models"
)

// ErrNotFound reports a user confirmed absent from the store.
var ErrNotFound = errors.New("user not found")

// UserRepository defines persistence operations for user accounts. The
// reminder subsystem only needs the FCM token lookup; the rest serves the
// session touchpoint.
type UserRepository interface {
	Upsert(user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateFCMToken(id, token string) error
}
