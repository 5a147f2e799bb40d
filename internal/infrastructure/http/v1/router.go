// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"freshstock/internal/domain/audit"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/internal/domain/catalogs/warehouse"
	"freshstock/internal/domain/documents/inbound"
	"freshstock/internal/domain/orders/purchase"
	"freshstock/internal/infrastructure/http/v1/handlers"
	"freshstock/internal/infrastructure/http/v1/middleware"
	"freshstock/internal/infrastructure/storage/postgres"
	"freshstock/internal/infrastructure/storage/postgres/catalog_repo"
	"freshstock/internal/infrastructure/storage/postgres/order_repo"
	"freshstock/internal/infrastructure/storage/postgres/stock_repo"
	"freshstock/pkg/logger"
	"freshstock/pkg/numerator"
)

// RouterConfig holds everything the router needs to build the
// application wiring.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, numerator)
	Pool *postgres.Pool

	// TxManager runs repository calls in transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Numerator generates document and batch numbers
	Numerator *numerator.Service

	// Auditor records the change trail for documents
	Auditor audit.Recorder

	// ReportCache caches the fresh-products listing. May be nil.
	ReportCache batch.ReportCache
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Actor())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// Repositories share the transaction manager, so a service-level
	// transaction spans every repository call made inside it.
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	buyerRepo := catalog_repo.NewBuyerRepo(cfg.TxManager)
	managerRepo := catalog_repo.NewManagerRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	sectionRepo := catalog_repo.NewSectionRepo(cfg.TxManager)
	batchRepo := stock_repo.NewBatchRepo(cfg.TxManager)
	inboundRepo := order_repo.NewInboundRepo(cfg.TxManager)
	purchaseRepo := order_repo.NewPurchaseRepo(cfg.TxManager)

	allocator := batch.NewAllocator(batchRepo)

	productService := product.NewService(productRepo, cfg.Numerator)
	buyerService := buyer.NewService(buyerRepo, cfg.Numerator)
	managerService := manager.NewService(managerRepo, cfg.Numerator)
	warehouseService := warehouse.NewService(warehouseRepo, cfg.Numerator)
	sectionService := section.NewService(sectionRepo, cfg.Numerator)
	batchService := batch.NewService(batchRepo, sectionRepo, managerRepo, cfg.ReportCache)
	inboundService := inbound.NewService(inboundRepo, batchRepo, sectionRepo, managerRepo, productRepo,
		cfg.TxManager, cfg.Numerator, cfg.Auditor, cfg.ReportCache)
	purchaseService := purchase.NewService(purchaseRepo, buyerRepo, productRepo, allocator,
		cfg.TxManager, cfg.Numerator, cfg.Auditor, cfg.ReportCache)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			handler := handlers.NewProductHandler(productService)
			products.POST("", handler.Create)
			products.GET("", handler.List)
			products.GET("/:id", handler.Get)
		}

		buyers := v1.Group("/buyers")
		{
			handler := handlers.NewBuyerHandler(buyerService)
			buyers.POST("", handler.Create)
			buyers.GET("", handler.List)
			buyers.GET("/:id", handler.Get)
		}

		managers := v1.Group("/managers")
		{
			handler := handlers.NewManagerHandler(managerService)
			managers.POST("", handler.Create)
			managers.GET("/:id", handler.Get)
		}

		warehouses := v1.Group("/warehouses")
		{
			warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
			sectionHandler := handlers.NewSectionHandler(sectionService)
			warehouses.POST("", warehouseHandler.Create)
			warehouses.GET("", warehouseHandler.List)
			warehouses.GET("/:id/sections", sectionHandler.ListByWarehouse)
		}

		sections := v1.Group("/sections")
		{
			handler := handlers.NewSectionHandler(sectionService)
			sections.POST("", handler.Create)
		}

		inboundOrders := v1.Group("/inbound-orders")
		{
			handler := handlers.NewInboundOrderHandler(inboundService)
			inboundOrders.POST("", handler.Create)
			inboundOrders.PUT("/:id", handler.Update)
			inboundOrders.GET("/:id", handler.Get)
		}

		purchaseOrders := v1.Group("/purchase-orders")
		{
			handler := handlers.NewPurchaseOrderHandler(purchaseService)
			purchaseOrders.POST("", handler.Create)
			purchaseOrders.GET("/:id", handler.Get)
			purchaseOrders.PUT("/:id/close", handler.Close)
			purchaseOrders.DELETE("/:id/products/:productId", handler.DropProduct)
		}

		freshProducts := v1.Group("/fresh-products")
		{
			handler := handlers.NewBatchReportHandler(batchService)
			freshProducts.GET("", handler.ListFresh)
			freshProducts.GET("/sections/:id", handler.ListBySection)
			freshProducts.GET("/expiring", handler.ListExpiring)
		}
	}

	return router
}
