package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer = "inventory-gateway"
	// Expiry is the lifetime of every issued token. It is not configurable.
	Expiry = time.Hour
)

type jwtService struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
	now       func() time.Time
}

type Option func(*jwtService)

// WithClock replaces time.Now for both issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) { s.now = now }
}

func NewJWTService(secret string, opts ...Option) Service {
	s := &jwtService{
		secretKey: []byte(secret),
		issuer:    Issuer,
		expiry:    Expiry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueToken signs payload as the token's claims. iss, iat and exp are
// always set by the server.
func (s *jwtService) IssueToken(payload map[string]any) (string, error) {
	email, _ := payload["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iss"] = s.issuer
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.expiry))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validating the algorithm is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Email != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
