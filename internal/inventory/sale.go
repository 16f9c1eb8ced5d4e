package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/store"
)

// NotifyTimeout bounds a single sale notification.
const NotifyTimeout = 10 * time.Second

// SaleNotifier is told about every recorded sale. Failures are logged and
// never fail the request.
type SaleNotifier interface {
	SaleRecorded(ctx context.Context, sale map[string]any) error
}

type SaleHandler struct {
	sales    collectionHandler
	notifier SaleNotifier
	timeout  time.Duration
}

func NewSaleHandler(db store.Database, notifier SaleNotifier) *SaleHandler {
	return &SaleHandler{
		sales:    collectionHandler{coll: db.Collection(store.Sales)},
		notifier: notifier,
		timeout:  NotifyTimeout,
	}
}

// Create serves POST /sales. The notification is sent in the background
// after the response, detached from the request's cancellation and capped
// by NotifyTimeout.
func (h *SaleHandler) Create(c *gin.Context) {
	sale, res, ok := h.sales.insert(c)
	if !ok || h.notifier == nil {
		return
	}
	sale["_id"] = res.InsertedID

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.timeout)
	go func() {
		defer cancel()
		if err := h.notifier.SaleRecorded(ctx, sale); err != nil {
			slog.WarnContext(ctx, "sale notification failed",
				slog.Any("sale_id", res.InsertedID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// ListByEmail serves GET /sales?email=.
func (h *SaleHandler) ListByEmail(c *gin.Context) { h.sales.listByEmail(c) }

// ListAll serves GET /admin/sales.
func (h *SaleHandler) ListAll(c *gin.Context) { h.sales.listAll(c) }
