package service

import (
	"eventhub/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by an issued token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed, time-bounded token asserting the user's
	// identity (id, email, role).
	Issue(user *entity.User) (string, error)

	// Validate checks a token string and returns its claims if the signature
	// and expiry are valid.
	Validate(tokenString string) (*Claims, error)
}
