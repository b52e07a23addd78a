package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

// AuthService authenticates the single operator account configured through
// the environment and issues access tokens for the reporting API.
type AuthService struct {
	username     string
	passwordHash string
	tokens       ports.TokenIssuer
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service. passwordHash is a
// bcrypt hash of the operator password.
func NewAuthService(username, passwordHash string, tokens ports.TokenIssuer) ports.AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// Login verifies the operator credentials and returns a signed token.
// Invalid username and invalid password fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.ErrInvalidCredentials
	}
	if username != s.username {
		return "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(username)
}
