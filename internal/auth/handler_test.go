package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Issue(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	service := auth.NewJWTService("secret")
	issued := 0
	r := gin.New()
	r.POST("/jwt", auth.NewHandler(service, func() { issued++ }).Issue)

	// Act
	req, _ := http.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	claims, err := service.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, 1, issued)
}

func TestHandler_IssueRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/jwt", auth.NewHandler(auth.NewJWTService("secret"), nil).Issue)

	for _, body := range []string{`{"name":"no email"}`, `not json`, ``} {
		req, _ := http.NewRequest(http.MethodPost, "/jwt", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}
