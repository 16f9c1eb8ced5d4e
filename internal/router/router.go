// Package router assembles the gin engine: ambient middleware first, then
// every route with its guard chain.
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/nookcoder/inventory-gateway/internal/health"
	"github.com/nookcoder/inventory-gateway/internal/inventory"
	"github.com/nookcoder/inventory-gateway/internal/metrics"
	"github.com/nookcoder/inventory-gateway/internal/middleware"
	"github.com/nookcoder/inventory-gateway/internal/payment"
	"github.com/nookcoder/inventory-gateway/internal/store"
	"github.com/nookcoder/inventory-gateway/internal/user"
	"github.com/prometheus/client_golang/prometheus"
)

type Deps struct {
	Logger     *slog.Logger
	DB         store.Database
	Tokens     auth.Service
	Payments   payment.Service
	Notifier   inventory.SaleNotifier
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer
	Currency   string
	AdminID    string
	CORSOrigin string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logging(d.Logger),
		d.Metrics.Middleware(),
		middleware.CORS(d.CORSOrigin),
		middleware.SecurityHeaders(),
	)

	users := user.NewRepository(d.DB)
	userHandler := user.NewHandler(users, d.AdminID)
	healthHandler := health.NewHealthHandler(d.DB)
	tokenHandler := auth.NewHandler(d.Tokens, d.Metrics.RecordTokenIssued)
	paymentHandler := payment.NewHandler(d.Payments, d.Currency, d.Metrics)
	shops := inventory.NewShopHandler(d.DB)
	products := inventory.NewProductHandler(d.DB)
	sales := inventory.NewSaleHandler(d.DB, d.Notifier)
	reviews := inventory.NewReviewHandler(d.DB)

	token := middleware.AuthMiddleware(d.Tokens)
	admin := middleware.RequireRole(users, user.RoleAdmin)
	manager := middleware.RequireRole(users, user.RoleManager)
	selfPath := middleware.RequireSelf(middleware.PathParam("email"))
	selfQuery := middleware.RequireSelf(middleware.QueryParam("email"))

	// Public
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	r.POST("/jwt", tokenHandler.Issue)
	r.POST("/users", userHandler.Create)
	r.PATCH("/admin-income", userHandler.AdminIncome)
	r.GET("/products/:id", products.Get)
	r.POST("/sales", sales.Create)
	r.GET("/reviews", reviews.List)
	r.POST("/create-payment-intent", paymentHandler.CreateIntent)

	// Users
	r.GET("/users/admin/:email", token, selfPath, userHandler.AdminStatus)
	r.GET("/users/manager/:email", token, selfPath, manager, userHandler.ManagerStatus)
	r.GET("/users/:email", token, selfPath, userHandler.GetByEmail)
	r.PUT("/users/:email", token, selfPath, userHandler.BecomeManager)
	r.DELETE("/users/:id", token, admin, userHandler.Delete)

	// Admin
	adminGroup := r.Group("/admin", token, admin)
	{
		adminGroup.GET("/users", userHandler.List)
		adminGroup.GET("/shops", shops.ListAll)
		adminGroup.GET("/products", products.ListAll)
		adminGroup.GET("/sales", sales.ListAll)
	}

	// Inventory
	r.POST("/shops", token, shops.Create)
	r.GET("/shops", token, selfQuery, shops.ListByEmail)
	r.PATCH("/shop/:id", token, shops.UpdateProductCount)

	r.POST("/products", token, products.Create)
	r.GET("/products", token, selfQuery, products.ListByEmail)
	r.PATCH("/patch/products/:id", token, products.UpdateStock)
	r.PUT("/products/:id", token, products.Update)
	r.DELETE("/products/:id", token, products.Delete)

	r.GET("/sales", token, selfQuery, sales.ListByEmail)

	return r
}
