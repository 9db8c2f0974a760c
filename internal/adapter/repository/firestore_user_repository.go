package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return errors.BadRequest("User ID is required", nil)
	}
	if _, err := r.client.Collection(usersPath).Doc(user.ID).Set(ctx, user); err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getDoc[entity.User](ctx, r.client.Collection(usersPath).Doc(id), "User")
}

// Update merges so a profile can be saved before the document exists.
func (r *firestoreUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	data := copyFields(fields)
	data["updated_at"] = time.Now()

	if _, err := r.client.Collection(usersPath).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	return out
}
