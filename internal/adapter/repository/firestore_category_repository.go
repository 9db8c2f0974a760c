package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewFirestoreCategoryRepository(client *firestore.Client) repository.CategoryRepository {
	return &firestoreCategoryRepository{client: client}
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*entity.ServiceCategory, error) {
	return collectDocs(r.client.Collection(categoriesPath).Documents(ctx), "service categories",
		func(c *entity.ServiceCategory) string { return c.ID })
}

func (r *firestoreCategoryRepository) Upsert(ctx context.Context, category *entity.ServiceCategory) error {
	if category.ID == "" {
		return errors.BadRequest("Category ID is required", nil)
	}
	if _, err := r.client.Collection(categoriesPath).Doc(category.ID).Set(ctx, category); err != nil {
		return errors.Internal("Failed to write service category", err)
	}
	return nil
}
