package usecase

import (
	"context"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/internal/infrastructure/cache"
	"servicemarket/pkg/logger"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	cache        cache.Cache
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository, c cache.Cache) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, cache: c}
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*entity.ServiceCategory, error) {
	return cache.Fetch(ctx, uc.cache, cacheKeyCategories, uc.categoryRepo.List)
}

// SeedCategories writes the default categories when none exist and reports how
// many were written.
func (uc *CategoryUseCase) SeedCategories(ctx context.Context) (int, error) {
	existing, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		logger.Info("service categories already present (%d), skipping seed", len(existing))
		return 0, nil
	}

	written := 0
	for _, c := range entity.DefaultCategories() {
		if err := uc.categoryRepo.Upsert(ctx, c); err != nil {
			return written, err
		}
		written++
	}
	cache.Invalidate(ctx, uc.cache, cacheKeyCategories)
	return written, nil
}
