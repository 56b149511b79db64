// Package auth handles credential storage, password hashing and JWT issuance.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
)

// Credentials binds a login email and password hash to a profile.
type Credentials struct {
	ProfileID    uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CredentialStore persists login credentials. The email is unique.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, c *Credentials) error
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.NewValidationError("WEAK_PASSWORD", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.NewInternalError("failed to hash password").WithCause(err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errors.NewUnauthorizedError("invalid email or password")
	}
	return nil
}

// Claims is the JWT payload carried by authenticated requests.
type Claims struct {
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// GenerateToken signs a token identifying the profile.
func (s *TokenService) GenerateToken(profileID uuid.UUID, userType string, now time.Time) (string, error) {
	claims := Claims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.NewInternalError("failed to sign token").WithCause(err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning its claims.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewUnauthorizedError("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}
	return claims, nil
}

// ProfileID extracts the subject as a UUID.
func (c *Claims) ProfileID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, errors.NewUnauthorizedError("malformed token subject")
	}
	return id, nil
}
