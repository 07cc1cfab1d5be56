// internal/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "socioplus"

type TokenManager struct {
	secret       []byte
	expiryPeriod time.Duration
}

func NewTokenManager(secret string, expiryPeriod time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		expiryPeriod: expiryPeriod,
	}
}

// Claims is the session payload. The role travels with the token so role
// gates do not need a store lookup.
type Claims struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Generate(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiryPeriod)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if !claims.Role.Valid() {
		return nil, fmt.Errorf("invalid token role %q", claims.Role)
	}

	return claims, nil
}

// Identity converts validated claims into the caller identity.
func (c *Claims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Anonymous, fmt.Errorf("invalid user id in token: %w", err)
	}
	return Identity{ID: id, Email: c.Email, Role: c.Role}, nil
}
