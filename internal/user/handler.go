package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/httpx"
	"github.com/nookcoder/inventory-gateway/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

var shopFields = []string{"shop_id", "shop_name", "shop_logo"}

type Handler struct {
	repo    *Repository
	adminID string
}

// NewHandler wires the user routes. adminID is the _id of the account that
// accumulates platform income.
func NewHandler(repo *Repository, adminID string) *Handler {
	return &Handler{repo: repo, adminID: adminID}
}

// AdminStatus serves GET /users/admin/:email.
func (h *Handler) AdminStatus(c *gin.Context) {
	h.roleStatus(c, RoleAdmin, "admin")
}

// ManagerStatus serves GET /users/manager/:email.
func (h *Handler) ManagerStatus(c *gin.Context) {
	h.roleStatus(c, RoleManager, "manager")
}

func (h *Handler) roleStatus(c *gin.Context, role, key string) {
	ok, err := h.repo.HasRole(c.Request.Context(), c.Param("email"), role)
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: ok})
}

// GetByEmail serves GET /users/:email.
func (h *Handler) GetByEmail(c *gin.Context) {
	docs, err := h.repo.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// List serves GET /admin/users.
func (h *Handler) List(c *gin.Context) {
	docs, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Create serves POST /users. A second sign-in with the same email answers
// with a null insertedId instead of creating a duplicate.
func (h *Handler) Create(c *gin.Context) {
	body, ok := httpx.BindObject(c)
	if !ok {
		return
	}
	if email, _ := body["email"].(string); email == "" {
		httpx.AbortBadRequest(c, "email is required")
		return
	}

	res, err := h.repo.Create(c.Request.Context(), bson.M(body))
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	if !res.Created() {
		c.JSON(http.StatusOK, gin.H{"message": "User already exist", "insertedId": nil})
		return
	}
	c.JSON(http.StatusOK, store.InsertResult{Acknowledged: true, InsertedID: res.InsertedID})
}

// BecomeManager serves PUT /users/:email.
func (h *Handler) BecomeManager(c *gin.Context) {
	body, ok := httpx.BindObject(c)
	if !ok {
		return
	}

	res, err := h.repo.PromoteToManager(c.Request.Context(), c.Param("email"), httpx.PickFields(body, shopFields...))
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete serves DELETE /users/:id.
func (h *Handler) Delete(c *gin.Context) {
	res, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.AbortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdminIncome serves PATCH /admin-income.
func (h *Handler) AdminIncome(c *gin.Context) {
	body, ok := httpx.BindObject(c)
	if !ok {
		return
	}
	income, ok := body["income"].(float64)
	if !ok {
		httpx.AbortBadRequest(c, "income must be a number")
		return
	}

	res, err := h.repo.AddIncome(c.Request.Context(), h.adminID, income)
	if errors.Is(err, store.ErrInvalidID) {
		// the configured id is wrong, not the request
		httpx.AbortInternal(c, fmt.Errorf("ADMIN_ID: %w", err))
		return
	}
	if err != nil {
		httpx.AbortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
