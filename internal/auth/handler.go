package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
)

type Handler struct {
	service Service
	issued  func()
}

// NewHandler builds the token endpoint. onIssue, when set, is called after
// every successful issue.
func NewHandler(service Service, onIssue func()) *Handler {
	if onIssue == nil {
		onIssue = func() {}
	}
	return &Handler{service: service, issued: onIssue}
}

// Issue serves POST /jwt.
func (h *Handler) Issue(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.AbortBadRequest(c, "request body must be a JSON object")
		return
	}

	token, err := h.service.IssueToken(payload)
	if errors.Is(err, ErrMissingEmail) {
		httpx.AbortBadRequest(c, err.Error())
		return
	}
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}

	h.issued()
	slog.DebugContext(c.Request.Context(), "token issued", slog.Any("email", payload["email"]))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
