package testutil

import (
	"time"

	"mealtrack/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for the User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing
func (f *UserFixture) ValidUser() *model.User {
	return &model.User{
		UserID:     "1",
		Username:   "testuser",
		Email:      "test@example.com",
		DateJoined: "2026-01-15",
	}
}

// UserWithUsername returns a user with a specific username
func (f *UserFixture) UserWithUsername(id, username string) *model.User {
	return &model.User{
		UserID:     id,
		Username:   username,
		Email:      username + "@example.com",
		DateJoined: "2026-01-15",
	}
}

// SessionFixture provides test data for the Session model
type SessionFixture struct{}

// NewSessionFixture creates a new SessionFixture instance
func NewSessionFixture() *SessionFixture {
	return &SessionFixture{}
}

// ValidSession returns a valid session for testing
func (f *SessionFixture) ValidSession() *model.Session {
	return &model.Session{
		User:      *NewUserFixture().ValidUser(),
		Token:     "test-session-token",
		CreatedAt: time.Now(),
	}
}

// HashPassword bcrypt-hashes a password the way the remote service stores
// credentials; used by the fake server in integration tests.
func HashPassword(password string) string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed)
}
