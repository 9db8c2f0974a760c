package repository

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type realtimeProviderRepository struct {
	client *db.Client
}

func NewRealtimeProviderRepository(client *db.Client) repository.ProviderRepository {
	return &realtimeProviderRepository{client: client}
}

func (r *realtimeProviderRepository) Create(ctx context.Context, provider *entity.ServiceProvider) error {
	if err := r.client.NewRef(childPath(providersPath, provider.ID)).Set(ctx, provider); err != nil {
		return errors.Internal("Failed to create service provider", err)
	}
	return nil
}

func (r *realtimeProviderRepository) GetByID(ctx context.Context, id string) (*entity.ServiceProvider, error) {
	provider, err := getDocument[entity.ServiceProvider](ctx, r.client, providersPath, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.NotFound("Service provider", nil)
	}
	return provider, nil
}

func (r *realtimeProviderRepository) List(ctx context.Context, status entity.VerificationStatus) ([]*entity.ServiceProvider, error) {
	if status == "" {
		return scanCollection[entity.ServiceProvider](ctx, r.client, providersPath)
	}
	return queryEqual(ctx, r.client, providersPath, "verification_status", string(status),
		func(p *entity.ServiceProvider) bool { return p.VerificationStatus == status })
}

func (r *realtimeProviderRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	existing, err := getDocument[entity.ServiceProvider](ctx, r.client, providersPath, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NotFound("Service provider", nil)
	}

	update := copyFields(fields)
	update["updated_at"] = time.Now()

	if err := r.client.NewRef(childPath(providersPath, id)).Update(ctx, update); err != nil {
		return errors.Internal("Failed to update service provider", err)
	}
	return nil
}

func (r *realtimeProviderRepository) IncrementBookings(ctx context.Context, id string, total, completed int) error {
	_, err := r.mutate(ctx, id, func(p *entity.ServiceProvider, now time.Time) {
		p.TotalBookings += total
		p.CompletedBookings += completed
		p.UpdatedAt = now
	})
	return err
}

func (r *realtimeProviderRepository) mutate(ctx context.Context, id string, fn func(*entity.ServiceProvider, time.Time)) (*entity.ServiceProvider, error) {
	return transactDocument(ctx, r.client, providersPath, id, func(current *entity.ServiceProvider) (*entity.ServiceProvider, error) {
		if current == nil {
			return nil, errors.NotFound("Service provider", nil)
		}
		fn(current, time.Now())
		return current, nil
	})
}
