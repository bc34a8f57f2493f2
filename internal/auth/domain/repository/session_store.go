package repository

import (
	"context"

	"mealtrack/internal/auth/domain/model"
)

// SessionStore holds the process-wide authenticated session. Implementations
// must be safe for concurrent use; the sync layer reads the token while
// login/logout may run on other goroutines.
type SessionStore interface {
	// Save stores the session, replacing any previous one.
	Save(ctx context.Context, session *model.Session) error

	// Current returns the stored session, or nil when logged out.
	Current(ctx context.Context) (*model.Session, error)

	// Clear removes the stored session; no-op when absent.
	Clear(ctx context.Context) error
}
