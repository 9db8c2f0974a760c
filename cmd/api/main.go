package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"servicemarket/internal/adapter/api"
	"servicemarket/internal/adapter/api/handler"
	apimiddleware "servicemarket/internal/adapter/api/middleware"
	"servicemarket/internal/adapter/api/router"
	"servicemarket/internal/infrastructure/cache"
	"servicemarket/internal/infrastructure/firebase"
	"servicemarket/internal/infrastructure/scheduler"
	"servicemarket/internal/infrastructure/storage"
	"servicemarket/internal/infrastructure/store"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/config"
	"servicemarket/pkg/logger"
	"servicemarket/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()
	repos := st.Repositories

	var readCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled: %v", err)
		} else {
			defer redisClient.Close()
			readCache = cache.NewRedisCache(redisClient, "servicemarket:", cfg.CacheTTL)
		}
	}

	var verifier apimiddleware.TokenVerifier
	if st.Firebase != nil {
		authClient := firebase.NewFirebaseAuthClient(st.Firebase.Auth, cfg.FirebaseAPIKey)
		verifier = authClient
		handler.SetupDevTokenHandler(authClient, repos.Users)
	} else if !cfg.IsProduction() {
		logger.Warn("No Firebase credentials: bearer tokens are trusted as user ids")
		verifier = firebase.DevVerifier{}
	} else {
		logger.Error("Firebase credentials are required in production")
		os.Exit(1)
	}

	var uploader storage.Uploader
	if cfg.StorageBucket != "" && st.Firebase != nil {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, st.Firebase.Option)
		if err != nil {
			logger.Warn("Cloud Storage unavailable, uploads disabled: %v", err)
		} else {
			defer storageClient.Close()
			uploader = storageClient
		}
	}
	handler.SetupFileHandler(uploader)
	handler.SetupHealthHandler(cfg.StoreBackend)

	userUseCase := usecase.NewUserUseCase(repos.Users, repos.Providers)
	categoryUseCase := usecase.NewCategoryUseCase(repos.Categories, readCache)
	providerUseCase := usecase.NewProviderUseCase(repos.Providers, repos.Users, repos.Categories, readCache)
	bookingUseCase := usecase.NewBookingUseCase(repos.Bookings, repos.Providers)
	reviewUseCase := usecase.NewReviewUseCase(repos.Reviews, repos.Bookings, repos.Providers, readCache)
	dashboardUseCase := usecase.NewDashboardUseCase(bookingUseCase, providerUseCase, categoryUseCase)

	handler.Setup(userUseCase, categoryUseCase, providerUseCase, bookingUseCase, reviewUseCase, dashboardUseCase)

	var jobs *scheduler.Scheduler
	if cfg.RatingReconcileSchedule != "" {
		jobs = scheduler.New(10 * time.Minute)
		err := jobs.Add(cfg.RatingReconcileSchedule, "rating-reconcile", func(ctx context.Context) error {
			updated, err := reviewUseCase.ReconcileAllRatings(ctx)
			logger.Info("rating reconcile processed %d providers", updated)
			return err
		})
		if err != nil {
			logger.Error("Invalid RATING_RECONCILE_SCHEDULE %q: %v", cfg.RatingReconcileSchedule, err)
			os.Exit(1)
		}
		jobs.Start()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.RateLimit(cfg.RateLimitPerSecond))

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	roleMiddleware := apimiddleware.NewRoleMiddleware(repos.Users)

	router.Setup(e, authMiddleware, roleMiddleware)
	router.SetupDevRouter(e, cfg.IsProduction())

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	if jobs != nil {
		jobs.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
