// Package httpx holds the fixed JSON error bodies shared by guards and
// handlers.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/store"
)

const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "forbidden access"
	MsgInternal     = "internal server error"
)

// ErrorBody is the body of every non-2xx JSON response.
type ErrorBody struct {
	Message string `json:"message"`
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Message: MsgUnauthorized})
}

func AbortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody{Message: MsgForbidden})
}

func AbortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Message: msg})
}

// AbortInternal logs err and answers with a generic 500. Details never
// reach the client.
func AbortInternal(c *gin.Context, err error) {
	abortUpstream(c, http.StatusInternalServerError, err)
}

// AbortBadGateway is AbortInternal for failures of a third-party API.
func AbortBadGateway(c *gin.Context, err error) {
	abortUpstream(c, http.StatusBadGateway, err)
}

func abortUpstream(c *gin.Context, status int, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorBody{Message: MsgInternal})
}

// AbortStoreError maps store errors: malformed ids are the caller's fault,
// everything else is a 500.
func AbortStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrInvalidID) {
		AbortBadRequest(c, err.Error())
		return
	}
	AbortInternal(c, err)
}

// BindObject decodes the request body as a JSON object. It writes a 400 and
// returns false when the body is not one.
func BindObject(c *gin.Context) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		AbortBadRequest(c, "request body must be a JSON object")
		return nil, false
	}
	return body, true
}

// PickFields copies the keys of body that appear in fields.
func PickFields(body map[string]any, fields ...string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := body[f]; ok {
			out[f] = v
		}
	}
	return out
}
