package repository

import (
	"context"

	"firebase.google.com/go/v4/db"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type realtimeCategoryRepository struct {
	client *db.Client
}

func NewRealtimeCategoryRepository(client *db.Client) repository.CategoryRepository {
	return &realtimeCategoryRepository{client: client}
}

func (r *realtimeCategoryRepository) List(ctx context.Context) ([]*entity.ServiceCategory, error) {
	return scanCollection[entity.ServiceCategory](ctx, r.client, categoriesPath)
}

func (r *realtimeCategoryRepository) Upsert(ctx context.Context, category *entity.ServiceCategory) error {
	if category.ID == "" {
		return errors.BadRequest("Category ID is required", nil)
	}
	doc := *category
	doc.ID = ""
	if err := r.client.NewRef(childPath(categoriesPath, category.ID)).Set(ctx, &doc); err != nil {
		return errors.Internal("Failed to write service category", err)
	}
	return nil
}
