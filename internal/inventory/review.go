package inventory

import (
	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/store"
)

type ReviewHandler struct {
	reviews collectionHandler
}

func NewReviewHandler(db store.Database) *ReviewHandler {
	return &ReviewHandler{reviews: collectionHandler{coll: db.Collection(store.Reviews)}}
}

// List serves GET /reviews.
func (h *ReviewHandler) List(c *gin.Context) { h.reviews.listAll(c) }
