package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type firestoreProviderRepository struct {
	client *firestore.Client
}

func NewFirestoreProviderRepository(client *firestore.Client) repository.ProviderRepository {
	return &firestoreProviderRepository{client: client}
}

func (r *firestoreProviderRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(providersPath).Doc(id)
}

func (r *firestoreProviderRepository) Create(ctx context.Context, provider *entity.ServiceProvider) error {
	if _, err := r.doc(provider.ID).Set(ctx, provider); err != nil {
		return errors.Internal("Failed to create service provider", err)
	}
	return nil
}

func (r *firestoreProviderRepository) GetByID(ctx context.Context, id string) (*entity.ServiceProvider, error) {
	return getDoc[entity.ServiceProvider](ctx, r.doc(id), "Service provider")
}

func (r *firestoreProviderRepository) List(ctx context.Context, verification entity.VerificationStatus) ([]*entity.ServiceProvider, error) {
	query := r.client.Collection(providersPath).Query
	if verification != "" {
		query = query.Where("verification_status", "==", string(verification))
	}
	return collectDocs(query.Documents(ctx), "service providers",
		func(p *entity.ServiceProvider) string { return p.ID })
}

func (r *firestoreProviderRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	data := copyFields(fields)
	data["updated_at"] = time.Now()
	return r.update(ctx, id, toUpdates(data))
}

func (r *firestoreProviderRepository) IncrementBookings(ctx context.Context, id string, total, completed int) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "total_bookings", Value: firestore.Increment(total)},
		{Path: "completed_bookings", Value: firestore.Increment(completed)},
		{Path: "updated_at", Value: time.Now()},
	})
}

func (r *firestoreProviderRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := r.doc(id).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return errors.NotFound("Service provider", err)
		}
		return errors.Internal("Failed to update service provider", err)
	}
	return nil
}
