// Command init-database seeds the reference data the apps need: the service
// categories. It is safe to run repeatedly.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"servicemarket/internal/infrastructure/cache"
	"servicemarket/internal/infrastructure/store"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/config"
	"servicemarket/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	if err := logger.Init(cfg.Environment); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store: %v", err)
		return 1
	}
	defer st.Close()

	categories := usecase.NewCategoryUseCase(st.Repositories.Categories, cache.Noop{})
	written, err := categories.SeedCategories(ctx)
	if err != nil {
		logger.Error("Failed to seed service categories: %v", err)
		return 1
	}

	logger.Info("Database initialised: %d service categories written", written)
	return 0
}
