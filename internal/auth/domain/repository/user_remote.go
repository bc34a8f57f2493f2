package repository

import (
	"context"

	"mealtrack/internal/auth/domain/model"
)

// Credentials is the payload for a login call.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the payload for an account-creation call.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// UserRemote defines the remote account and authentication operations.
// Implemented by the HTTP gateway.
type UserRemote interface {
	// Login exchanges credentials for the user record and a bearer token.
	Login(ctx context.Context, creds Credentials) (*model.User, string, error)

	// Register creates an account and returns the user record and token.
	Register(ctx context.Context, reg Registration) (*model.User, string, error)

	// FetchUser retrieves one account by id.
	FetchUser(ctx context.Context, userID string) (*model.User, error)

	// UpdateUser patches the changed account fields.
	UpdateUser(ctx context.Context, userID string, patch model.ProfilePatch) (*model.User, error)

	// ListUsers retrieves every account, for admin overviews.
	ListUsers(ctx context.Context) ([]*model.User, error)

	// UsernameExists reports whether a username is already taken.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists reports whether an email is already registered.
	EmailExists(ctx context.Context, email string) (bool, error)
}
