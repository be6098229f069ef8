package auth

import (
	"context"
)

// MockVerifier provides fake token verification for tests. Tokens maps bearer tokens
// to users so one router can serve several callers; unknown tokens fall back to User.
type MockVerifier struct {
	User   *User
	Tokens map[string]*User
	Error  error
}

// Verify returns the configured user or error.
func (m *MockVerifier) Verify(_ context.Context, token string) (*User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if u, ok := m.Tokens[token]; ok {
		return u, nil
	}
	if m.User == nil {
		return nil, ErrInvalidToken
	}
	return m.User, nil
}

// TestUser returns a standard parent account.
func TestUser() *User {
	return &User{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
	}
}

// TestAdmin returns a user holding the admin claim.
func TestAdmin() *User {
	return &User{
		UID:           "test-admin-1",
		Email:         "admin@example.com",
		EmailVerified: true,
		Admin:         true,
	}
}

var _ Verifier = (*MockVerifier)(nil)
