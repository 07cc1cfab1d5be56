package auth

import (
	"fmt"

	"github.com/dangerclosesec/socioplus/internal/model"
)

// AuthService bundles credential hashing and session tokens. It keeps no
// state of its own beyond its configuration.
type AuthService struct {
	hasher *PasswordHasher
	tokens *TokenManager
}

func NewAuthService(hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{hasher: hasher, tokens: tokens}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// VerifyPassword checks password against the user's stored hash. A nil user
// still costs one hash computation.
func (s *AuthService) VerifyPassword(user *model.User, password string) bool {
	if user == nil {
		s.hasher.VerifyDummy(password)
		return false
	}
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	return err == nil && ok
}

// IssueToken starts a session for the user.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}

// IdentityFromToken extracts the caller identity from a session token.
func (s *AuthService) IdentityFromToken(token string) (Identity, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return Anonymous, err
	}
	return claims.Identity()
}
