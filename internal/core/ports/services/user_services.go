package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// UserSvcFacade exposes user management operations.
type UserSvcFacade interface {
	// CreateUser registers a new user with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, for login.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// StoreRefreshTokenHash persists the hash of the user's current refresh
	// token; nil clears it.
	StoreRefreshTokenHash(ctx context.Context, userID string, hash *string) error
}
