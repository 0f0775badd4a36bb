package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	procapp "github.com/temple-erp/backend/internal/application/procurement"
	"github.com/temple-erp/backend/internal/infrastructure/config"
	"github.com/temple-erp/backend/internal/infrastructure/event"
	"github.com/temple-erp/backend/internal/infrastructure/logger"
	"github.com/temple-erp/backend/internal/infrastructure/persistence"
	"github.com/temple-erp/backend/internal/interfaces/http/handler"
	"github.com/temple-erp/backend/internal/interfaces/http/middleware"
	"github.com/temple-erp/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting procurement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	requestRepo := persistence.NewGormPurchaseRequestRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	invoiceRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	supplierDirectory := persistence.NewGormSupplierDirectory(db.DB)

	// Cross-aggregate commits run inside one transaction scope
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	defaultTolerance := decimal.NewFromFloat(cfg.Procurement.DefaultTolerancePercent)

	requestService := procapp.NewPurchaseRequestService(requestRepo, orderRepo, supplierDirectory, txScope)
	requestService.SetDefaultTolerance(defaultTolerance)

	orderService := procapp.NewPurchaseOrderService(orderRepo, supplierDirectory)
	orderService.SetDefaultTolerance(defaultTolerance)
	orderService.SetApprovalPolicy(procapp.AllowAllApprovalPolicy{})

	receiptService := procapp.NewGoodsReceiptService(receiptRepo, orderRepo, txScope)
	invoiceService := procapp.NewPurchaseInvoiceService(invoiceRepo, orderRepo, txScope)

	paymentService := procapp.NewPaymentService(paymentRepo, invoiceRepo, txScope)
	paymentService.SetChequeValidityMonths(cfg.Procurement.ChequeValidityMonths)

	// Initialize event bus with an audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	requestService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	requestHandler := handler.NewPurchaseRequestHandler(requestService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	receiptHandler := handler.NewGoodsReceiptHandler(receiptService)
	invoiceHandler := handler.NewPurchaseInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and logging carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Procurement document routes
	procurementRoutes := router.NewDomainGroup("procurement", "/procurement")
	procurementRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "procurement service ready"})
	})

	// Purchase Request routes
	procurementRoutes.POST("/purchase-requests", requestHandler.Create)
	procurementRoutes.GET("/purchase-requests", requestHandler.List)
	procurementRoutes.GET("/purchase-requests/number/:request_number", requestHandler.GetByRequestNumber)
	procurementRoutes.GET("/purchase-requests/:id", requestHandler.GetByID)
	procurementRoutes.PUT("/purchase-requests/:id", requestHandler.Update)
	procurementRoutes.POST("/purchase-requests/:id/items", requestHandler.AddItem)
	procurementRoutes.PUT("/purchase-requests/:id/items/:item_id", requestHandler.UpdateItem)
	procurementRoutes.DELETE("/purchase-requests/:id/items/:item_id", requestHandler.RemoveItem)
	procurementRoutes.POST("/purchase-requests/:id/cancel", requestHandler.Cancel)
	procurementRoutes.POST("/purchase-requests/:id/convert", requestHandler.SplitConvert)
	procurementRoutes.GET("/purchase-requests/:id/orders", orderHandler.ListBySourceRequest)

	// Purchase Order routes
	procurementRoutes.POST("/purchase-orders", orderHandler.Create)
	procurementRoutes.GET("/purchase-orders", orderHandler.List)
	procurementRoutes.GET("/purchase-orders/number/:order_number", orderHandler.GetByOrderNumber)
	procurementRoutes.GET("/purchase-orders/:id", orderHandler.GetByID)
	procurementRoutes.POST("/purchase-orders/:id/items", orderHandler.AddItem)
	procurementRoutes.PUT("/purchase-orders/:id/items/:item_id", orderHandler.UpdateItem)
	procurementRoutes.DELETE("/purchase-orders/:id/items/:item_id", orderHandler.RemoveItem)
	procurementRoutes.PUT("/purchase-orders/:id/charges", orderHandler.SetCharges)
	procurementRoutes.POST("/purchase-orders/:id/submit", orderHandler.Submit)
	procurementRoutes.POST("/purchase-orders/:id/approve", orderHandler.Approve)
	procurementRoutes.POST("/purchase-orders/:id/reject", orderHandler.Reject)
	procurementRoutes.POST("/purchase-orders/:id/cancel", orderHandler.Cancel)
	procurementRoutes.POST("/purchase-orders/:id/close", orderHandler.Close)
	procurementRoutes.GET("/purchase-orders/:id/goods-receipts", receiptHandler.ListByPurchaseOrder)
	procurementRoutes.GET("/purchase-orders/:id/invoices", invoiceHandler.ListByPurchaseOrder)

	// Goods Receipt routes
	procurementRoutes.POST("/goods-receipts", receiptHandler.Create)
	procurementRoutes.POST("/goods-receipts/receive", receiptHandler.Receive)
	procurementRoutes.GET("/goods-receipts", receiptHandler.List)
	procurementRoutes.GET("/goods-receipts/:id", receiptHandler.GetByID)
	procurementRoutes.POST("/goods-receipts/:id/complete", receiptHandler.Complete)
	procurementRoutes.POST("/goods-receipts/:id/items", receiptHandler.AddItem)
	procurementRoutes.DELETE("/goods-receipts/:id/items/:item_id", receiptHandler.RemoveItem)

	// Purchase Invoice routes
	procurementRoutes.POST("/purchase-invoices", invoiceHandler.Create)
	procurementRoutes.GET("/purchase-invoices", invoiceHandler.List)
	procurementRoutes.GET("/purchase-invoices/:id", invoiceHandler.GetByID)
	procurementRoutes.POST("/purchase-invoices/:id/post", invoiceHandler.Post)
	procurementRoutes.GET("/purchase-invoices/:id/payments", paymentHandler.ListByInvoice)

	// Payment routes
	procurementRoutes.POST("/payments", paymentHandler.Record)
	procurementRoutes.GET("/payments", paymentHandler.List)
	procurementRoutes.GET("/payments/:id", paymentHandler.GetByID)
	procurementRoutes.POST("/payments/:id/cancel", paymentHandler.Cancel)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(procurementRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// gormLogLevel maps the application log level to a GORM logger level
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn", "warning":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
