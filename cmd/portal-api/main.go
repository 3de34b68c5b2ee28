package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradeflow/trade-portal/trade-portal-backend/internal/auth"
	"tradeflow/trade-portal/trade-portal-backend/internal/buyers"
	"tradeflow/trade-portal/trade-portal-backend/internal/config"
	"tradeflow/trade-portal/trade-portal-backend/internal/dashboard"
	"tradeflow/trade-portal/trade-portal-backend/internal/documents"
	"tradeflow/trade-portal/trade-portal-backend/internal/events"
	"tradeflow/trade-portal/trade-portal-backend/internal/exports"
	"tradeflow/trade-portal/trade-portal-backend/internal/notifications/ws"
	"tradeflow/trade-portal/trade-portal-backend/internal/partners"
	"tradeflow/trade-portal/trade-portal-backend/internal/quotations"
	"tradeflow/trade-portal/trade-portal-backend/internal/shipments"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
	"tradeflow/trade-portal/trade-portal-backend/pkg/assist"
	"tradeflow/trade-portal/trade-portal-backend/pkg/pdf"
	"tradeflow/trade-portal/trade-portal-backend/pkg/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	if os.Getenv("GIN_MODE") != "release" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// gorm shares the same database for the modules built on it
	gormDB, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}

	ctx := context.Background()
	objectStore, err := storage.NewS3Client(ctx, storage.S3Options{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Company event feed
	eventsService, err := events.NewService(gormDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize events module", zap.Error(err))
	}
	eventsHandler := events.NewHandler(eventsService, logger)

	// Websocket fan-out
	hub := ws.NewHub(logger)
	defer hub.Close()

	// Shipment workflow core
	engine := workflow.NewEngine(nil)
	shipmentStore := shipments.NewStore()
	shipmentRepo := shipments.NewRepository(db)
	shipmentService := shipments.NewService(shipmentStore, shipmentRepo, engine, eventsService, hub, logger)
	if err := shipmentService.Hydrate(ctx); err != nil {
		logger.Fatal("Failed to hydrate shipment store", zap.Error(err))
	}
	shipmentHandler := shipments.NewHandler(shipmentService, logger)

	// Buyer book
	buyerRepo, err := buyers.NewRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize buyers module", zap.Error(err))
	}
	buyerService := buyers.NewService(buyerRepo, eventsService, logger)
	buyerHandler := buyers.NewHandler(buyerService, logger)

	// Partner directory
	partnerRepo := partners.NewRepository(db.DB)
	partnerService := partners.NewService(partnerRepo, eventsService, logger)
	partnerHandler := partners.NewHandler(partnerService, logger)

	// Trade documents
	documentRepo := documents.NewRepository(db)
	documentService := documents.NewService(documentRepo, shipmentService,
		pdf.NewGenerator(pdf.DefaultOptions()), objectStore, cfg.Documents.Bucket,
		eventsService, logger)
	documentHandler := documents.NewHandler(documentService, logger)

	// Quotations
	quotationRepo, err := quotations.NewRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize quotations module", zap.Error(err))
	}
	quotationService := quotations.NewService(quotationRepo, assist.NewTemplateDrafter(), eventsService, logger)
	quotationHandler := quotations.NewHandler(quotationService, logger)

	// Dashboard
	aggregator := dashboard.NewAggregator(shipmentService, cfg.Dashboard.CacheTTL, logger)
	defer aggregator.Stop()
	dashboardHandler := dashboard.NewHandler(aggregator, logger)

	// Ledger exports
	exportHandler := exports.NewHandler(shipmentService, logger)

	// Auth
	userRepo, err := auth.NewUserRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize auth module", zap.Error(err))
	}
	tokens := auth.NewTokenManager([]byte(cfg.Security.JWTSecret), cfg.Security.TokenTTL)
	authService := auth.NewService(userRepo, tokens, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	public := router.Group("/api/v1")
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(tokens))
	{
		shipmentHandler.RegisterRoutes(api)
		buyerHandler.RegisterRoutes(api)
		partnerHandler.RegisterRoutes(api)
		documentHandler.RegisterRoutes(api)
		quotationHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
		exportHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	}
	authHandler.RegisterRoutes(public, api)

	// Live updates
	router.GET("/ws", func(c *gin.Context) {
		if err := hub.HandleConnection(c.Writer, c.Request); err != nil {
			logger.Warn("Failed to upgrade websocket connection", zap.Error(err))
		}
	})

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
