package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/config"
	"github.com/ngenohkevin/lms-circulation/internal/database"
	"github.com/ngenohkevin/lms-circulation/internal/handlers"
	"github.com/ngenohkevin/lms-circulation/internal/middleware"
	"github.com/ngenohkevin/lms-circulation/internal/services"
)

const version = "1.0.0"

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.Server.Mode)

	// Initialize database connection
	db, err := database.New(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(ctx, db.Pool, "up")
		cancel()
		if err != nil {
			slog.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// Initialize Redis connection
	redis, err := database.NewRedis(cfg)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redis.Close()

	// Use the configured RSA key if available, otherwise generate one
	jwtPrivateKey := cfg.JWT.PrivateKey
	if jwtPrivateKey == "" {
		slog.Warn("No JWT private key configured, generating an ephemeral development key")
		jwtPrivateKey = getDefaultRSAPrivateKey()
	}

	authService, err := services.NewAuthService(
		jwtPrivateKey,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		logger,
		redis.Client,
	)
	if err != nil {
		slog.Error("Failed to initialize auth service", "error", err)
		os.Exit(1)
	}

	// Initialize services
	store := database.NewStore(db.Pool)
	loanService := services.NewLoanService(store, cfg.Circulation, services.WithLogger(logger))
	penaltyService := services.NewPenaltyService(store, services.WithLogger(logger))
	stockService := services.NewStockService(store, services.WithLogger(logger))
	bookService := services.NewBookService(store)
	studentService := services.NewStudentService(store)

	if err := handlers.ConfigureBinding(); err != nil {
		slog.Error("Failed to configure request binding", "error", err)
		os.Exit(1)
	}

	// Initialize Gin router
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		slog.Error("Invalid trusted proxies", "error", err)
		os.Exit(1)
	}

	// Add global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins...))
	r.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(redis.Client)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	idempotent := middleware.Idempotency(redis.Client, middleware.DefaultIdempotencyTTL)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(version, map[string]handlers.HealthChecker{
		"database": db,
		"redis":    redis,
	})
	loanHandler := handlers.NewLoanHandler(loanService)
	penaltyHandler := handlers.NewPenaltyHandler(penaltyService)
	stockHandler := handlers.NewStockHandler(stockService)
	bookHandler := handlers.NewBookHandler(bookService)
	studentHandler := handlers.NewStudentHandler(studentService)

	// Public routes (no authentication required)
	public := r.Group("/api/v1")
	{
		public.GET("/ping", healthHandler.Ping)
		public.GET("/health", healthHandler.Health)
	}

	// Protected routes (authentication required)
	protected := r.Group("/api/v1")
	protected.Use(authMiddleware.RequireAuth())
	protected.Use(rateLimiter.APILimit(cfg.RateLimit))
	protected.Use(middleware.NoStore())

	// Back office routes (librarian access required)
	desk := protected.Group("")
	desk.Use(authMiddleware.RequireLibrarian())
	{
		desk.GET("/book-issue", loanHandler.ListLoans)
		desk.POST("/book-issue", idempotent, loanHandler.IssueBook)
		desk.PUT("/book-issue", idempotent, loanHandler.UpdateLoan)
		desk.PATCH("/book-issue", idempotent, loanHandler.EditLoan)
		desk.DELETE("/book-issue", idempotent, loanHandler.DeleteLoan)

		desk.GET("/penalty", penaltyHandler.ListPenalties)
		desk.POST("/penalty", idempotent, penaltyHandler.CreatePenalty)
		desk.GET("/penalty/remaining", penaltyHandler.Remaining)

		desk.GET("/library-payment", penaltyHandler.ListPayments)
		desk.POST("/library-payment", idempotent, penaltyHandler.RecordPayment)

		desk.GET("/book-stock-history", stockHandler.ListHistory)
		desk.POST("/book-stock-history", idempotent, stockHandler.AdjustStock)
		desk.PATCH("/book-stock-history", stockHandler.UpdateRemarks)

		books := desk.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.GET("/:id/inventory", bookHandler.Inventory)
			books.DELETE("/:id", bookHandler.DeactivateBook)
		}

		students := desk.Group("/students")
		{
			students.POST("", studentHandler.CreateStudent)
			students.GET("", studentHandler.ListStudents)
			students.GET("/:id", studentHandler.GetStudent)
		}
	}

	// Self service routes (student tokens only)
	me := protected.Group("/me")
	me.Use(authMiddleware.RequireStudent())
	{
		me.GET("/loans", loanHandler.MyLoans)
		me.GET("/penalties", penaltyHandler.MyPenalties)
	}

	// Root health check
	r.GET("/health", healthHandler.Health)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server", "port", port, "mode", cfg.Server.Mode, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// getDefaultRSAPrivateKey generates a throwaway RSA key for development.
// Tokens signed with it do not survive a restart.
func getDefaultRSAPrivateKey() string {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		slog.Error("Failed to generate RSA key", "error", err)
		os.Exit(1)
	}

	privateKeyPEM := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	return string(pem.EncodeToMemory(privateKeyPEM))
}
