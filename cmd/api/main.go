package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "erp/api/swagger" // swagger docs
	"erp/internal/config"
	"erp/internal/database"
	"erp/internal/handler"
	"erp/internal/logger"
	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/service"
	"erp/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ERP API
// @version         1.0
// @description     Billing documents, numbering categories, purchasing and attendance.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Fatalw("failed to load config", "error", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		logger.L.Fatalw("failed to build logger", "error", err)
	}
	logger.L = log
	defer func() { _ = log.Sync() }()

	secret, err := cfg.JWTSecret()
	if err != nil {
		log.Fatalw("invalid auth config", "error", err)
	}
	location, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid attendance config", "error", err)
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalw("database migration failed", "error", err)
	}
	log.Infow("connected to PostgreSQL", "host", cfg.DB.Host, "database", cfg.DB.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log.With("component", "websocket"))
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	taxRepo := repository.NewTaxRepository(db)
	priceListRepo := repository.NewVendorPriceListRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)

	auditService := service.NewAuditService(auditRepo, log)
	userService := service.NewUserService(userRepo, secret, log)
	categoryService := service.NewCategoryService(categoryRepo, txManager, auditService, log)
	billingService := service.NewBillingService(billingRepo, categoryService, txManager, auditService, log)
	employeeService := service.NewEmployeeService(employeeRepo, log)
	attendanceService := service.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		txManager,
		auditService,
		wsHub,
		database.NewPinger(db, "PostgreSQL"),
		location,
		log,
	)
	taxService := service.NewTaxService(taxRepo, auditService)
	priceListService := service.NewVendorPriceListService(priceListRepo, taxRepo)
	poService := service.NewPurchaseOrderService(poRepo, categoryService, txManager, auditService, log)

	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	auth := middleware.NewAuth(secret, cfg.Auth.Enabled)

	// Initialize Handlers
	routes := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewUserHandler(userService),
		handler.NewAuditHandler(auditService, auth),
		handler.NewCategoryHandler(categoryService, auth, model.CategoryKindBilling, "/api/billingcategory"),
		handler.NewCategoryHandler(categoryService, auth, model.CategoryKindInvoice, "/api/invoicecategory"),
		handler.NewCategoryHandler(categoryService, auth, model.CategoryKindPurchaseOrder, "/api/pocategory"),
		handler.NewBillingHandler(billingService),
		handler.NewEmployeeHandler(employeeService),
		handler.NewAttendanceHandler(attendanceService, auth),
		handler.NewTaxHandler(taxService, auth),
		handler.NewVendorPriceListHandler(priceListService),
		handler.NewPurchaseOrderHandler(poService, auth),
	}

	// Set up Gin Router
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID, middleware.AccessLog(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.HeaderRequestID}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.ErrorHandler(), auth.Identify())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret, auth.Enabled())
	})

	for _, r := range routes {
		r.RegisterRoutes(router.Group(""))
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("server listening", "addr", srv.Addr, "authEnabled", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
