// Package inventory serves the shop, product, sale and review routes. Each
// handler performs one document-store call and returns its result as is.
package inventory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
	"github.com/nookcoder/inventory-gateway/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

type collectionHandler struct {
	coll store.Collection
}

// insert stores the request body. A client-supplied _id is dropped so that
// every document is addressable by ObjectID.
func (h collectionHandler) insert(c *gin.Context) (bson.M, *store.InsertResult, bool) {
	body, ok := httpx.BindObject(c)
	if !ok {
		return nil, nil, false
	}
	doc := bson.M(body)
	delete(doc, "_id")

	res, err := h.coll.InsertOne(c.Request.Context(), doc)
	if err != nil {
		httpx.AbortInternal(c, err)
		return nil, nil, false
	}
	c.JSON(http.StatusOK, res)
	return doc, res, true
}

func (h collectionHandler) find(c *gin.Context, filter bson.M) {
	docs, err := h.coll.Find(c.Request.Context(), filter)
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h collectionHandler) listAll(c *gin.Context) {
	h.find(c, bson.M{})
}

func (h collectionHandler) listByEmail(c *gin.Context) {
	h.find(c, store.ByEmail(c.Query("email")))
}

// findByID answers null when nothing matches.
func (h collectionHandler) findByID(c *gin.Context) {
	filter, err := store.ByID(c.Param("id"))
	if err != nil {
		httpx.AbortStoreError(c, err)
		return
	}

	var doc bson.M
	err = h.coll.FindOne(c.Request.Context(), filter, &doc)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// setFields writes the listed fields present in the body onto document :id.
func (h collectionHandler) setFields(c *gin.Context, fields []string) {
	filter, err := store.ByID(c.Param("id"))
	if err != nil {
		httpx.AbortStoreError(c, err)
		return
	}
	body, ok := httpx.BindObject(c)
	if !ok {
		return
	}
	set := httpx.PickFields(body, fields...)
	if len(set) == 0 {
		httpx.AbortBadRequest(c, "no updatable fields in request body")
		return
	}

	res, err := h.coll.UpdateOne(c.Request.Context(), filter, bson.M{"$set": set}, false)
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h collectionHandler) deleteByID(c *gin.Context) {
	filter, err := store.ByID(c.Param("id"))
	if err != nil {
		httpx.AbortStoreError(c, err)
		return
	}

	res, err := h.coll.DeleteOne(c.Request.Context(), filter)
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
