package model

import "time"

// Session represents the authenticated state held by the client: the
// logged-in user plus the bearer token the remote service issued.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.UserID != ""
}
