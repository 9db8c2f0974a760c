package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{client: client}
}

func (r *firestoreBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	ref := r.client.Collection(bookingsPath).NewDoc()
	if _, err := ref.Create(ctx, booking); err != nil {
		return errors.Internal("Failed to create booking", err)
	}
	booking.ID = ref.ID
	return nil
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	return getDoc[entity.Booking](ctx, r.client.Collection(bookingsPath).Doc(id), "Booking")
}

func (r *firestoreBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Booking, error) {
	return r.listWhere(ctx, "customer_id", customerID)
}

func (r *firestoreBookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Booking, error) {
	return r.listWhere(ctx, "provider_id", providerID)
}

func (r *firestoreBookingRepository) listWhere(ctx context.Context, field, value string) ([]*entity.Booking, error) {
	iter := r.client.Collection(bookingsPath).Where(field, "==", value).Documents(ctx)
	return collectDocs(iter, "bookings", func(b *entity.Booking) string { return b.ID })
}

func (r *firestoreBookingRepository) Mutate(ctx context.Context, id string, fn repository.BookingMutation) (*entity.Booking, error) {
	ref := r.client.Collection(bookingsPath).Doc(id)
	var result *entity.Booking

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Booking", err)
			}
			return errors.Internal("Failed to get booking", err)
		}
		booking, err := decodeDoc[entity.Booking](doc, "booking")
		if err != nil {
			return err
		}
		if err := fn(booking, time.Now()); err != nil {
			return err
		}
		result = booking
		return tx.Set(ref, booking)
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to update booking", err)
	}
	return result, nil
}
