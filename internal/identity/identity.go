// Package identity defines the identity-provider surface the account
// workflows depend on. The provider owns authentication credentials and
// issues stable opaque user ids; everything else about it is out of this
// service's control.
package identity

import (
	"context"
	"errors"
)

// Sentinel errors implementations map provider-specific failures onto, so
// workflows can branch without knowing which provider is behind the
// interface.
var (
	ErrEmailExists  = errors.New("identity: email already exists")
	ErrInvalidEmail = errors.New("identity: invalid email address")
	ErrWeakPassword = errors.New("identity: password too weak")
	ErrUserNotFound = errors.New("identity: user not found")
)

// CreateParams carries the fields a new identity account is created with.
type CreateParams struct {
	Email         string
	Password      string
	DisplayName   string
	EmailVerified bool
}

// Store is the injected identity-provider collaborator. Each call is a
// single best-effort remote call; no retries are attempted.
type Store interface {
	CreateUser(ctx context.Context, p CreateParams) (string, error)
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdatePassword(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) error
}
