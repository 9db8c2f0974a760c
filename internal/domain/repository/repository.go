package repository

import (
	"context"
	"time"

	"servicemarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// Update merges fields into the stored user and refreshes updated_at.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

type ProviderRepository interface {
	// Create writes the whole document keyed by provider.ID, replacing any existing one.
	Create(ctx context.Context, provider *entity.ServiceProvider) error
	GetByID(ctx context.Context, id string) (*entity.ServiceProvider, error)
	// List returns every provider, or only those with the given verification
	// status when status is non-empty.
	List(ctx context.Context, status entity.VerificationStatus) ([]*entity.ServiceProvider, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// IncrementBookings atomically adds to the booking counters.
	IncrementBookings(ctx context.Context, id string, total, completed int) error
}

// BookingMutation edits a booking inside an atomic read-modify-write.
type BookingMutation func(booking *entity.Booking, now time.Time) error

type BookingRepository interface {
	// Create stores the booking under a store-generated key and sets booking.ID.
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]*entity.Booking, error)
	// Mutate applies fn to the current booking and stores the result atomically.
	// An error from fn aborts the write and is returned unchanged.
	Mutate(ctx context.Context, id string, fn BookingMutation) (*entity.Booking, error)
}

type ReviewRepository interface {
	// Create is a plain insert with no uniqueness check.
	Create(ctx context.Context, review *entity.Review) error
	// CreateAndAggregate claims the booking's single review slot, stores the
	// review and folds its rating into the provider aggregate. A second review
	// for the same booking fails with a CONFLICT AppError.
	CreateAndAggregate(ctx context.Context, review *entity.Review) error
	// RecomputeProviderRating rebuilds the provider's rating aggregate from its
	// stored reviews without losing reviews aggregated concurrently. A provider
	// with no reviews is returned unchanged.
	RecomputeProviderRating(ctx context.Context, providerID string) (*entity.ServiceProvider, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByBookingID(ctx context.Context, bookingID string) (*entity.Review, error)
	ListByProvider(ctx context.Context, providerID string) ([]*entity.Review, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.ServiceCategory, error)
	Upsert(ctx context.Context, category *entity.ServiceCategory) error
}

// Repositories is one store backend's full set of repositories.
type Repositories struct {
	Users      UserRepository
	Providers  ProviderRepository
	Bookings   BookingRepository
	Reviews    ReviewRepository
	Categories CategoryRepository
}
