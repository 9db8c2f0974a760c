package repository

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type realtimeUserRepository struct {
	client *db.Client
}

func NewRealtimeUserRepository(client *db.Client) repository.UserRepository {
	return &realtimeUserRepository{client: client}
}

func (r *realtimeUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return errors.BadRequest("User ID is required", nil)
	}
	if err := r.client.NewRef(childPath(usersPath, user.ID)).Set(ctx, user); err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *realtimeUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := getDocument[entity.User](ctx, r.client, usersPath, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *realtimeUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	update := copyFields(fields)
	update["updated_at"] = time.Now()

	if err := r.client.NewRef(childPath(usersPath, id)).Update(ctx, update); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}
