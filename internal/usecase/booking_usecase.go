package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

type BookingUseCase struct {
	bookingRepo  repository.BookingRepository
	providerRepo repository.ProviderRepository
}

func NewBookingUseCase(bookingRepo repository.BookingRepository, providerRepo repository.ProviderRepository) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo:  bookingRepo,
		providerRepo: providerRepo,
	}
}

type CreateBookingInput struct {
	ProviderID      string  `json:"provider_id" validate:"required"`
	BookingDate     string  `json:"booking_date" validate:"required"`
	BookingTime     string  `json:"booking_time" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0,lte=1440"`
	ServiceAddress  string  `json:"service_address" validate:"required,max=500"`
	EstimatedPrice  float64 `json:"estimated_price" validate:"gte=0"`
}

func (uc *BookingUseCase) CreateBooking(ctx context.Context, customerID string, input CreateBookingInput) (*entity.Booking, error) {
	if input.ProviderID == "" {
		return nil, errors.BadRequest("Provider ID is required", nil)
	}
	if input.ProviderID == customerID {
		return nil, errors.BadRequest("Cannot book yourself", nil)
	}

	booking := &entity.Booking{
		CustomerID:      customerID,
		ProviderID:      input.ProviderID,
		BookingDate:     input.BookingDate,
		BookingTime:     input.BookingTime,
		DurationMinutes: input.DurationMinutes,
		ServiceAddress:  input.ServiceAddress,
		EstimatedPrice:  input.EstimatedPrice,
		Status:          entity.BookingPending,
		PaymentStatus:   entity.PaymentPending,
	}
	if _, err := booking.ScheduledAt(); err != nil {
		return nil, errors.BadRequest("Invalid booking date or time", err)
	}

	provider, err := uc.providerRepo.GetByID(ctx, input.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.IsAvailable {
		return nil, errors.BadRequest("Provider is not accepting bookings", nil)
	}
	if booking.EstimatedPrice == 0 && booking.DurationMinutes > 0 {
		booking.EstimatedPrice = provider.HourlyRate * float64(booking.DurationMinutes) / 60
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := uc.providerRepo.IncrementBookings(ctx, provider.ID, 1, 0); err != nil {
		logger.Error("failed to count booking %s for provider %s: %v", booking.ID, provider.ID, err)
	}
	return booking, nil
}

func (uc *BookingUseCase) GetBookingByID(ctx context.Context, id string) (*entity.Booking, error) {
	if id == "" {
		return nil, errors.BadRequest("Booking ID is required", nil)
	}
	return uc.bookingRepo.GetByID(ctx, id)
}

// GetUserBookings lists the bookings where userID is the customer (role
// customer) or the provider (role provider), latest scheduled first.
func (uc *BookingUseCase) GetUserBookings(ctx context.Context, userID string, role entity.UserRole, status entity.BookingStatus) ([]*entity.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, errors.BadRequest("Invalid booking status", nil)
	}

	var (
		bookings []*entity.Booking
		err      error
	)
	switch role {
	case entity.RoleCustomer:
		bookings, err = uc.bookingRepo.ListByCustomer(ctx, userID)
	case entity.RoleProvider:
		bookings, err = uc.bookingRepo.ListByProvider(ctx, userID)
	default:
		return nil, errors.BadRequest("Role must be customer or provider", nil)
	}
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := bookings[:0]
		for _, b := range bookings {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}

	SortBookingsBySchedule(bookings, true)
	return bookings, nil
}

// SortBookingsBySchedule orders bookings by their parsed date and time.
// Bookings whose schedule cannot be parsed always come last.
func SortBookingsBySchedule(bookings []*entity.Booking, latestFirst bool) {
	type keyed struct {
		b  *entity.Booking
		at time.Time
		ok bool
	}
	keys := make([]keyed, len(bookings))
	for i, b := range bookings {
		at, err := b.ScheduledAt()
		keys[i] = keyed{b: b, at: at, ok: err == nil}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.at.Equal(b.at) {
			if latestFirst {
				return a.at.After(b.at)
			}
			return a.at.Before(b.at)
		}
		return a.b.ID < b.b.ID
	})

	for i := range keys {
		bookings[i] = keys[i].b
	}
}

type actor int

const (
	actorParticipant actor = iota
	actorProvider
)

func (uc *BookingUseCase) transition(ctx context.Context, id, actorID string, who actor, to entity.BookingStatus, apply func(*entity.Booking, time.Time)) (*entity.Booking, error) {
	var from entity.BookingStatus
	booking, err := uc.bookingRepo.Mutate(ctx, id, func(b *entity.Booking, now time.Time) error {
		switch who {
		case actorProvider:
			if b.ProviderID != actorID {
				return errors.Forbidden("Only the booked provider can do this", nil)
			}
		default:
			if !b.IsParticipant(actorID) {
				return errors.Forbidden("You are not part of this booking", nil)
			}
		}
		if !entity.CanTransition(b.Status, to) {
			return errors.Conflict(fmt.Sprintf("Cannot move booking from %s to %s", b.Status, to))
		}
		from = b.Status
		b.Status = to
		b.UpdatedAt = now
		if apply != nil {
			apply(b, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("booking %s moved from %s to %s by %s", id, from, to, actorID)
	return booking, nil
}

func (uc *BookingUseCase) ConfirmBooking(ctx context.Context, id, providerID string) (*entity.Booking, error) {
	return uc.transition(ctx, id, providerID, actorProvider, entity.BookingConfirmed, nil)
}

func (uc *BookingUseCase) StartBooking(ctx context.Context, id, providerID string) (*entity.Booking, error) {
	return uc.transition(ctx, id, providerID, actorProvider, entity.BookingInProgress, nil)
}

// CompleteBooking finishes the job. finalPrice defaults to the estimate.
func (uc *BookingUseCase) CompleteBooking(ctx context.Context, id, providerID string, finalPrice *float64) (*entity.Booking, error) {
	if finalPrice != nil && *finalPrice < 0 {
		return nil, errors.BadRequest("Final price cannot be negative", nil)
	}
	booking, err := uc.transition(ctx, id, providerID, actorProvider, entity.BookingCompleted, func(b *entity.Booking, now time.Time) {
		price := b.EstimatedPrice
		if finalPrice != nil {
			price = *finalPrice
		}
		b.FinalPrice = &price
		b.CompletedAt = &now
	})
	if err != nil {
		return nil, err
	}

	if err := uc.providerRepo.IncrementBookings(ctx, booking.ProviderID, 0, 1); err != nil {
		logger.Error("failed to count completed booking %s for provider %s: %v", booking.ID, booking.ProviderID, err)
	}
	return booking, nil
}

func (uc *BookingUseCase) CancelBooking(ctx context.Context, id, actorID, reason string) (*entity.Booking, error) {
	return uc.transition(ctx, id, actorID, actorParticipant, entity.BookingCancelled, func(b *entity.Booking, now time.Time) {
		b.CancellationReason = reason
		b.CancelledBy = actorID
		b.CancelledAt = &now
		if b.PaymentStatus == entity.PaymentCompleted {
			b.PaymentStatus = entity.PaymentRefunded
		}
	})
}
