package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
)

// Recorder observes payment intent outcomes.
type Recorder interface {
	RecordPaymentIntent(success bool)
}

type Handler struct {
	service  Service
	currency string
	recorder Recorder
}

func NewHandler(service Service, currency string, recorder Recorder) *Handler {
	return &Handler{service: service, currency: currency, recorder: recorder}
}

type intentRequest struct {
	Price json.Number `json:"price"`
}

// CreateIntent serves POST /create-payment-intent.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == "" {
		httpx.AbortBadRequest(c, "price is required")
		return
	}

	amount, err := MinorUnits(req.Price)
	if err != nil {
		httpx.AbortBadRequest(c, err.Error())
		return
	}
	slog.InfoContext(c.Request.Context(), "creating payment intent",
		slog.Int64("amount", amount),
		slog.String("currency", h.currency),
	)

	secret, err := h.service.CreateIntent(c.Request.Context(), amount, h.currency)
	if h.recorder != nil {
		h.recorder.RecordPaymentIntent(err == nil)
	}
	if err != nil {
		httpx.AbortBadGateway(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}
