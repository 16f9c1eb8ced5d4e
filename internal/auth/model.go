package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingEmail = errors.New("identity payload must contain an email")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the verified view of an identity token. Any other payload keys
// supplied at issue time travel in the token but are not decoded here.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service interface {
	IssueToken(payload map[string]any) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}
