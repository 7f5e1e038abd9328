package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "github.com/diagnosis/sindhu-tours/internal/http/middleware"
	"github.com/diagnosis/sindhu-tours/internal/http/handlers"
	"github.com/diagnosis/sindhu-tours/internal/platform/mailer"
	"github.com/diagnosis/sindhu-tours/internal/platform/storage"
	"github.com/diagnosis/sindhu-tours/internal/repo/postgres"
	"github.com/diagnosis/sindhu-tours/internal/service"
	"github.com/diagnosis/sindhu-tours/internal/session"
	"github.com/diagnosis/sindhu-tours/pkg/config"
	"github.com/diagnosis/sindhu-tours/pkg/database"
	"github.com/diagnosis/sindhu-tours/pkg/events"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
	pkgmw "github.com/diagnosis/sindhu-tours/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to redis (sessions, login rate limit)
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		redisOpts.DB = cfg.Redis.DB
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Connect to event bus
	var eventBus events.Publisher = events.LogBus{}
	if cfg.NATS.URL != "" {
		nb, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventBus = nb
	}
	defer eventBus.Close()

	var emailSvc mailer.Service = mailer.NewDevMailer()
	if !cfg.Email.DevMode && cfg.Email.MailerSendKey != "" {
		emailSvc = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Initialize repositories
	profilesRepo := postgres.NewProfilesRepo(pool)
	verifyRepo := postgres.NewVerifyRepo(pool)
	destinationsRepo := postgres.NewDestinationsRepo(pool)
	toursRepo := postgres.NewToursRepo(pool)
	bookingRepo := postgres.NewBookingRepo(pool)
	idempotencyRepo := postgres.NewIdempotencyRepo(pool)
	reviewsRepo := postgres.NewReviewsRepo(pool)
	sessions := session.NewRedisStore(rdb)
	images := storage.NewImages(cfg.Storage.PublicBaseURL)

	// Initialize services
	authService := service.NewAuthService(profilesRepo, verifyRepo, sessions, emailSvc, eventBus, cfg)
	catalogService := service.NewCatalogService(toursRepo, destinationsRepo, images, cfg.Catalog.CacheTTL)
	bookingService := service.NewBookingService(bookingRepo, idempotencyRepo, toursRepo, images, eventBus)
	reviewService := service.NewReviewService(bookingRepo, reviewsRepo, eventBus)
	adminService := service.NewAdminService(profilesRepo, toursRepo, destinationsRepo, bookingRepo, reviewsRepo, catalogService, images, eventBus)
	profileService := service.NewProfileService(profilesRepo, sessions)

	// Initialize handlers
	h := handlers.New(authService, catalogService, bookingService, reviewService, adminService, profileService)
	loginLimiter := mw.NewRateLimiter(rdb, mw.RateLimitConfig{
		Requests: cfg.Auth.LoginRateLimit,
		Window:   cfg.Auth.LoginRateWindow,
		Prefix:   "login",
	})

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(pkgmw.RealIP(cfg.Server.TrustProxy))
	r.Use(pkgmw.RequestID)
	r.Use(pkgmw.ServiceName("sindhu-tours"))
	r.Use(pkgmw.Logging)
	r.Use(pkgmw.CORS(cfg.CORS.AllowedOrigins))
	r.Use(pkgmw.Health)

	r.Mount("/v1", h.Routes(&mw.Sessions{Store: sessions, Secret: cfg.Auth.JWTSecret}, loginLimiter.Middleware()))

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
