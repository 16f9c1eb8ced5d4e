package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/health"
	"github.com/nookcoder/inventory-gateway/internal/store"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(h *health.HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Check)

	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	// Arrange
	h := health.NewHealthHandler(nil)

	// Act
	w := serve(h, "/health")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_StoreReachable(t *testing.T) {
	w := serve(health.NewHealthHandler(store.NewMemoryDatabase()), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_StoreDown(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("no reachable servers") })

	w := serve(health.NewHealthHandler(down), "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestRoot(t *testing.T) {
	w := serve(health.NewHealthHandler(nil), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inventory Management Server is running", w.Body.String())
}
