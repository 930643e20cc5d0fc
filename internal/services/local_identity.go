package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
)

const purposeVerifyEmail = "verify_email"

type identityClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Purpose       string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// LocalIdentity signs HS256 tokens for users stored in the database. It stands in
// for Firebase in development and self-hosted deployments.
type LocalIdentity struct {
	users    repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	linkTTL  time.Duration
	baseURL  string
	now      func() time.Time
}

func NewLocalIdentity(users repositories.UserRepository, secret string, tokenTTL, linkTTL time.Duration, baseURL string) (*LocalIdentity, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required for the local identity provider")
	}
	return &LocalIdentity{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		linkTTL:  linkTTL,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}, nil
}

// IssueToken signs an ID token for the user with the given email.
func (l *LocalIdentity) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := l.findUser(ctx, email)
	if err != nil {
		return "", err
	}
	return l.sign(user, "", l.tokenTTL)
}

func (l *LocalIdentity) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := l.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, fmt.Errorf("%w: token has purpose %q", ErrInvalidToken, claims.Purpose)
	}
	return &Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func (l *LocalIdentity) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	user, err := l.findUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUserRecord(user), nil
}

func (l *LocalIdentity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	user, err := l.findUser(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := l.sign(user, purposeVerifyEmail, l.linkTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", l.baseURL, url.QueryEscape(token)), nil
}

// VerifyEmail implements EmailVerifier.
func (l *LocalIdentity) VerifyEmail(ctx context.Context, token string) (*UserRecord, error) {
	claims, err := l.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeVerifyEmail {
		return nil, fmt.Errorf("%w: not a verification token", ErrInvalidToken)
	}

	if err := l.users.MarkEmailVerified(ctx, claims.Subject); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := l.users.FindByUID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return toUserRecord(user), nil
}

func (l *LocalIdentity) sign(user *models.User, purpose string, ttl time.Duration) (string, error) {
	now := l.now()
	claims := &identityClaims{
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Purpose:       purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (l *LocalIdentity) parse(token string) (*identityClaims, error) {
	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (l *LocalIdentity) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := l.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func toUserRecord(user *models.User) *UserRecord {
	return &UserRecord{
		UID:           user.UID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
	}
}
