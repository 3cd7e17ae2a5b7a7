package users

import (
	"context"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

// Repository persists user credential records (username, salt, verifier).
type Repository interface {
	// Get returns the credential record for username, or
	// common.ErrUserNotFound if no such user is registered.
	Get(ctx context.Context, username string) (*models.UserCredential, error)

	// Create inserts a new credential record. It returns
	// common.ErrDuplicateUser if the username is already taken.
	Create(ctx context.Context, cred *models.UserCredential) error
}
