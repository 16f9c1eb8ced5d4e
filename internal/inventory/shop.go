package inventory

import (
	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/store"
)

type ShopHandler struct {
	shops collectionHandler
}

func NewShopHandler(db store.Database) *ShopHandler {
	return &ShopHandler{shops: collectionHandler{coll: db.Collection(store.Shops)}}
}

// Create serves POST /shops.
func (h *ShopHandler) Create(c *gin.Context) { h.shops.insert(c) }

// ListByEmail serves GET /shops?email=.
func (h *ShopHandler) ListByEmail(c *gin.Context) { h.shops.listByEmail(c) }

// ListAll serves GET /admin/shops.
func (h *ShopHandler) ListAll(c *gin.Context) { h.shops.listAll(c) }

// UpdateProductCount serves PATCH /shop/:id.
func (h *ShopHandler) UpdateProductCount(c *gin.Context) {
	h.shops.setFields(c, []string{"product_count"})
}
