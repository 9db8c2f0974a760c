package repository

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type realtimeBookingRepository struct {
	client *db.Client
}

func NewRealtimeBookingRepository(client *db.Client) repository.BookingRepository {
	return &realtimeBookingRepository{client: client}
}

func (r *realtimeBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	booking.ID = ""
	ref, err := r.client.NewRef(bookingsPath).Push(ctx, booking)
	if err != nil {
		return errors.Internal("Failed to create booking", err)
	}
	booking.ID = ref.Key
	return nil
}

func (r *realtimeBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := getDocument[entity.Booking](ctx, r.client, bookingsPath, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errors.NotFound("Booking", nil)
	}
	return booking, nil
}

func (r *realtimeBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Booking, error) {
	return queryEqual(ctx, r.client, bookingsPath, "customer_id", customerID,
		func(b *entity.Booking) bool { return b.CustomerID == customerID })
}

func (r *realtimeBookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Booking, error) {
	return queryEqual(ctx, r.client, bookingsPath, "provider_id", providerID,
		func(b *entity.Booking) bool { return b.ProviderID == providerID })
}

func (r *realtimeBookingRepository) Mutate(ctx context.Context, id string, fn repository.BookingMutation) (*entity.Booking, error) {
	return transactDocument(ctx, r.client, bookingsPath, id, func(current *entity.Booking) (*entity.Booking, error) {
		if current == nil {
			return nil, errors.NotFound("Booking", nil)
		}
		if err := fn(current, time.Now()); err != nil {
			return nil, err
		}
		return current, nil
	})
}
