package services

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type UserRecord struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
}

// EmailVerifier is implemented by providers that complete verification links themselves.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) (*UserRecord, error)
}
