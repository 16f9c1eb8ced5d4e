package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_Cycle(t *testing.T) {
	// Arrange
	service := auth.NewJWTService("super_secret_key")
	payload := map[string]any{"email": "a@x.com", "name": "Ada"}

	// Act 1: Issue
	token, err := service.IssueToken(payload)

	// Assert 1: Should succeed
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Act 2: Validate
	claims, err := service.ValidateToken(token)

	// Assert 2: Should retrieve data
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, auth.Issuer, claims.Issuer)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_PayloadEmbeddedAsClaims(t *testing.T) {
	service := auth.NewJWTService("secret")

	token, err := service.IssueToken(map[string]any{"email": "a@x.com", "photo": "p.png", "exp": 1})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "p.png", claims["photo"])
	assert.NotEqual(t, float64(1), claims["exp"], "server owns exp")
}

func TestJWTService_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	service := auth.NewJWTService("secret", auth.WithClock(clock))

	token, err := service.IssueToken(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err, "valid within the hour")
	assert.Equal(t, "a@x.com", claims.Email)

	now = now.Add(2 * time.Minute)
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "expired after the hour")
}

func TestJWTService_ExpiryIsFixed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service := auth.NewJWTService("secret", auth.WithClock(func() time.Time { return now }))

	token, err := service.IssueToken(map[string]any{"email": "a@x.com", "exp": now.Add(48 * time.Hour).Unix()})
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Expiry, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.Equal(t, time.Hour, auth.Expiry)
}

func TestJWTService_MissingEmail(t *testing.T) {
	service := auth.NewJWTService("secret")

	for _, payload := range []map[string]any{nil, {}, {"email": ""}, {"email": 42}} {
		_, err := service.IssueToken(payload)
		assert.ErrorIs(t, err, auth.ErrMissingEmail)
	}
}

func TestJWTService_InvalidToken(t *testing.T) {
	service := auth.NewJWTService("secret")
	_, err := service.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := auth.NewJWTService("one").IssueToken(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = auth.NewJWTService("two").ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"email": "a@x.com",
		"iss":   auth.Issuer,
		"exp":   jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewJWTService("secret").ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	claims := jwt.MapClaims{"email": "a@x.com", "iss": auth.Issuer}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewJWTService("secret").ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
