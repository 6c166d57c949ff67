// Package auth holds the client-side session model and the Service that
// logs users in and out against the external FoodVerse API.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSession is returned by a SessionStore when nothing is persisted.
	ErrNoSession = errors.New("no stored session")
	// ErrSessionExpired is returned by Restore when the stored session is past its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is returned by operations that need a logged in user.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Role is the kind of account as reported by the API.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleConsumer, RoleBusiness, RoleAdmin, RoleSeller:
		return true
	default:
		return false
	}
}

// SellsFood reports whether the role manages stores and food bags.
func (r Role) SellsFood() bool {
	return r == RoleBusiness || r == RoleSeller
}

// User is the account as returned by the API.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      Role      `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the client-held record of an authenticated user.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Expired reports whether the session has a known expiry that is not after now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(now)
}

// Registration is the payload for creating an account.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     Role   `json:"user_type,omitempty"`
}

// API is the subset of the external REST API the Service depends on.
type API interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, r Registration) (Session, error)
	Profile(ctx context.Context, token string) (User, error)
}

// SessionStore persists the session across process restarts.
// Load returns ErrNoSession when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
