package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patriciaayrah/order-management-system/internal/handler"
	mid "github.com/patriciaayrah/order-management-system/internal/middleware"
	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/config"
	"github.com/patriciaayrah/order-management-system/pkg/database"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"github.com/patriciaayrah/order-management-system/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration (.env is picked up there when present)
	appConfig, err := config.Load("order-management-system")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting order-management-system",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(db,
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories and services
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	inventoryLogRepo := repository.NewInventoryLogRepository(db)

	stockLedger := service.NewStockLedger(productRepo, inventoryLogRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, stockLedger)
	reportService := service.NewReportService(orderRepo, productRepo)

	productHandler := handler.NewProductHandler(productRepo, stockLedger)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryLogRepo, stockLedger)
	reportHandler := handler.NewReportHandler(reportService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		},
	}))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product API routes
	productAPI := e.Group("/api/products")
	productAPI.GET("", productHandler.List)
	productAPI.GET("/:id", productHandler.Get)
	productAPI.POST("", productHandler.Create)
	productAPI.PUT("/:id", productHandler.Update)
	productAPI.DELETE("/:id", productHandler.Delete)

	// Order API routes
	orderAPI := e.Group("/api/orders")
	orderAPI.GET("", orderHandler.List)
	orderAPI.GET("/:id", orderHandler.Get)
	orderAPI.POST("", orderHandler.Create)

	// Inventory log API routes
	inventoryAPI := e.Group("/api/inventory-logs")
	inventoryAPI.GET("", inventoryHandler.List)
	inventoryAPI.GET("/:id", inventoryHandler.Get)
	inventoryAPI.POST("", inventoryHandler.Create)

	// Report route
	e.GET("/api/reports", reportHandler.Get)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
