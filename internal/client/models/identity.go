// Package models holds the value types shared by the client core: the
// authenticated identity, the credentials draft and transcript turns.
package models

// Identity is the authenticated user as reported by the auth service.
// UserID is opaque to the client.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Credentials is the transient username/password pair of an auth attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Empty reports whether either field is missing.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Password == ""
}

// String never reveals the password.
func (c Credentials) String() string {
	return "Credentials{Username:" + c.Username + ", Password:***}"
}
