// Package v1 assembles the HTTP API: routing, middleware and handlers.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/documents/bom"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/domain/documents/payment"
	"stockbook/internal/domain/documents/production"
	"stockbook/internal/domain/documents/purchase"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/registers/ledger"
	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/pkg/logger"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Pool      *pgxpool.Pool
	Logger    *logger.Logger
	Validator middleware.JWTValidator

	Items      *item.Service
	Warehouses *warehouse.Service
	Customers  *customer.Service

	Stock  *stock.Service
	Ledger *ledger.Service

	BOMs        *bom.Service
	Purchases   *purchase.Service
	Sales       *sale.Service
	Productions *production.Service
	Invoices    *invoice.Service
	Payments    *payment.Service
}

// NewRouter builds the Gin engine with middleware and all v1 routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health/live", health.Live)
	router.GET("/health/ready", health.Ready)

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Validator))

	handlers.NewItemHandler(base, cfg.Items).
		RegisterRoutes(api.Group("/items"))
	handlers.NewWarehouseHandler(base, cfg.Warehouses).
		RegisterRoutes(api.Group("/warehouses"))
	handlers.NewCustomerHandler(base, cfg.Customers, cfg.Ledger).
		RegisterRoutes(api.Group("/customers"))

	handlers.NewStockHandler(base, cfg.Stock).
		RegisterRoutes(api.Group("/stock"))

	handlers.NewBOMHandler(base, cfg.BOMs).
		RegisterRoutes(api.Group("/boms"))
	handlers.NewPurchaseHandler(base, cfg.Purchases).
		RegisterRoutes(api.Group("/purchases"))
	handlers.NewSaleHandler(base, cfg.Sales).
		RegisterRoutes(api.Group("/sales"))
	handlers.NewProductionHandler(base, cfg.Productions).
		RegisterRoutes(api.Group("/productions"))
	handlers.NewInvoiceHandler(base, cfg.Invoices).
		RegisterRoutes(api.Group("/invoices"))
	handlers.NewPaymentHandler(base, cfg.Payments).
		RegisterRoutes(api.Group("/payments"))

	return router
}
