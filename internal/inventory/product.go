package inventory

import (
	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/store"
)

var (
	stockFields = []string{"product_quantity", "sale_count"}

	productFields = []string{
		"details",
		"discount",
		"product_name",
		"production_cost",
		"product_location",
		"profit",
		"product_quantity",
		"image",
		"selling_price",
	}
)

type ProductHandler struct {
	products collectionHandler
}

func NewProductHandler(db store.Database) *ProductHandler {
	return &ProductHandler{products: collectionHandler{coll: db.Collection(store.Products)}}
}

// Create serves POST /products.
func (h *ProductHandler) Create(c *gin.Context) { h.products.insert(c) }

// ListByEmail serves GET /products?email=.
func (h *ProductHandler) ListByEmail(c *gin.Context) { h.products.listByEmail(c) }

// ListAll serves GET /admin/products.
func (h *ProductHandler) ListAll(c *gin.Context) { h.products.listAll(c) }

// Get serves GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) { h.products.findByID(c) }

// UpdateStock serves PATCH /patch/products/:id after a sale.
func (h *ProductHandler) UpdateStock(c *gin.Context) { h.products.setFields(c, stockFields) }

// Update serves PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) { h.products.setFields(c, productFields) }

// Delete serves DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) { h.products.deleteByID(c) }
