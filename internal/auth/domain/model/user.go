package model

// User represents an account on the remote meal service.
// Wire field names follow the service's user envelope.
type User struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	DateJoined string `json:"date_joined,omitempty"`
}

// ProfilePatch carries the changed account fields for a profile update.
// Nil fields are left untouched on the server.
type ProfilePatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Avatar == nil && p.Password == nil
}
