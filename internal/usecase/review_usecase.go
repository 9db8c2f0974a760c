package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/multierr"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/internal/infrastructure/cache"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo   repository.ReviewRepository
	bookingRepo  repository.BookingRepository
	providerRepo repository.ProviderRepository
	cache        cache.Cache
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	providerRepo repository.ProviderRepository,
	c cache.Cache,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:   reviewRepo,
		bookingRepo:  bookingRepo,
		providerRepo: providerRepo,
		cache:        c,
	}
}

type CreateReviewInput struct {
	BookingID    string   `json:"booking_id"`
	Rating       int      `json:"rating" validate:"required,min=1,max=5"`
	ReviewText   string   `json:"review_text" validate:"max=2000"`
	ReviewImages []string `json:"review_images" validate:"max=5,dive,url"`
}

// CreateReview stores the customer's review of a booking and folds its rating
// into the provider's aggregate. A booking accepts at most one review.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, customerID string, input CreateReviewInput) (*entity.Review, error) {
	if input.BookingID == "" {
		return nil, errors.BadRequest("Booking ID is required", nil)
	}
	if input.Rating < entity.MinRating || input.Rating > entity.MaxRating {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, errors.Forbidden("Only the booking's customer can review it", nil)
	}
	if booking.Status == entity.BookingCancelled {
		return nil, errors.BadRequest("Cancelled bookings cannot be reviewed", nil)
	}

	// Cheap read first for a clear error; the write below is what enforces it.
	if _, err := uc.reviewRepo.GetByBookingID(ctx, input.BookingID); err == nil {
		return nil, errors.Conflict("Review for this booking already exists")
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	review := &entity.Review{
		BookingID:    booking.ID,
		CustomerID:   customerID,
		ProviderID:   booking.ProviderID,
		Rating:       input.Rating,
		ReviewText:   input.ReviewText,
		ReviewImages: input.ReviewImages,
	}
	review.ApplyDefaults(time.Now())

	if err := uc.reviewRepo.CreateAndAggregate(ctx, review); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, uc.cache, cacheKeyFeatured)

	logger.Info("review %s created for booking %s (rating %d)", review.ID, review.BookingID, review.Rating)
	return review, nil
}

func (uc *ReviewUseCase) GetReviewByBookingID(ctx context.Context, bookingID string) (*entity.Review, error) {
	if bookingID == "" {
		return nil, errors.BadRequest("Booking ID is required", nil)
	}
	return uc.reviewRepo.GetByBookingID(ctx, bookingID)
}

// GetProviderReviews returns the provider's reviews, newest first. A positive
// limit truncates the list.
func (uc *ReviewUseCase) GetProviderReviews(ctx context.Context, providerID string, limit int) ([]*entity.Review, error) {
	if providerID == "" {
		return nil, errors.BadRequest("Provider ID is required", nil)
	}
	reviews, err := uc.reviewRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID < reviews[j].ID
	})

	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// UpdateProviderRating recomputes the provider's rating aggregate from every
// stored review. A provider without reviews is left untouched. Running it
// repeatedly without new reviews yields the same values.
func (uc *ReviewUseCase) UpdateProviderRating(ctx context.Context, providerID string) (*entity.ServiceProvider, error) {
	if providerID == "" {
		return nil, errors.BadRequest("Provider ID is required", nil)
	}

	provider, err := uc.reviewRepo.RecomputeProviderRating(ctx, providerID)
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, uc.cache, cacheKeyFeatured)
	return provider, nil
}

// ReconcileAllRatings recomputes every provider's aggregate. It keeps going
// past individual failures and returns them combined.
func (uc *ReviewUseCase) ReconcileAllRatings(ctx context.Context) (int, error) {
	providers, err := uc.providerRepo.List(ctx, "")
	if err != nil {
		return 0, err
	}

	var (
		updated int
		errs    error
	)
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return updated, multierr.Append(errs, err)
		}
		if _, err := uc.UpdateProviderRating(ctx, p.ID); err != nil {
			logger.Error("reconcile rating for provider %s: %v", p.ID, err)
			errs = multierr.Append(errs, err)
			continue
		}
		updated++
	}
	return updated, errs
}
