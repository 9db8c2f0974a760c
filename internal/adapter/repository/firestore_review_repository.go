package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if _, err := r.client.Collection(reviewsPath).Doc(review.ID).Set(ctx, review); err != nil {
		return errors.Internal("Failed to create review", err)
	}
	return nil
}

// CreateAndAggregate claims review_claims/{booking_id}, writes the review and
// updates the provider aggregate in one transaction.
func (r *firestoreReviewRepository) CreateAndAggregate(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	claimRef := r.client.Collection(reviewClaimsPath).Doc(review.BookingID)
	reviewRef := r.client.Collection(reviewsPath).Doc(review.ID)
	providerRef := r.client.Collection(providersPath).Doc(review.ProviderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(claimRef); err == nil {
			return errors.Conflict("Review for this booking already exists")
		} else if !isNotFound(err) {
			return errors.Internal("Failed to check review claim", err)
		}

		doc, err := tx.Get(providerRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Service provider", err)
			}
			return errors.Internal("Failed to get service provider", err)
		}
		provider, err := decodeDoc[entity.ServiceProvider](doc, "service provider")
		if err != nil {
			return err
		}
		provider.AddRating(review.Rating, time.Now())

		if err := tx.Create(claimRef, map[string]interface{}{
			"review_id":  review.ID,
			"created_at": review.CreatedAt,
		}); err != nil {
			return err
		}
		if err := tx.Set(reviewRef, review); err != nil {
			return err
		}
		return tx.Set(providerRef, provider)
	})
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return appErr
		}
		if isAlreadyExists(err) {
			return errors.Conflict("Review for this booking already exists")
		}
		return errors.Internal("Failed to create review", err)
	}
	return nil
}

// RecomputeProviderRating reads the provider and queries its reviews inside
// one transaction, so a review aggregated concurrently forces a retry instead
// of being overwritten.
func (r *firestoreReviewRepository) RecomputeProviderRating(ctx context.Context, providerID string) (*entity.ServiceProvider, error) {
	providerRef := r.client.Collection(providersPath).Doc(providerID)
	reviewsQuery := r.client.Collection(reviewsPath).Where("provider_id", "==", providerID)

	var result *entity.ServiceProvider
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(providerRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Service provider", err)
			}
			return errors.Internal("Failed to get service provider", err)
		}
		provider, err := decodeDoc[entity.ServiceProvider](doc, "service provider")
		if err != nil {
			return err
		}

		docs, err := tx.Documents(reviewsQuery).GetAll()
		if err != nil {
			return errors.Internal("Failed to query reviews", err)
		}
		result = provider
		if len(docs) == 0 {
			return nil
		}

		var sum float64
		for _, d := range docs {
			review, err := decodeDoc[entity.Review](d, "review")
			if err != nil {
				return err
			}
			sum += float64(review.Rating)
		}
		provider.SetRating(sum, len(docs), time.Now())
		return tx.Set(providerRef, provider)
	})
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to recompute provider rating", err)
	}
	return result, nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	return getDoc[entity.Review](ctx, r.client.Collection(reviewsPath).Doc(id), "Review")
}

func (r *firestoreReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*entity.Review, error) {
	iter := r.client.Collection(reviewsPath).Where("booking_id", "==", bookingID).Documents(ctx)
	reviews, err := collectDocs(iter, "reviews", func(rv *entity.Review) string { return rv.ID })
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, errors.NotFound("Review for booking", nil)
	}
	first := reviews[0]
	for _, rv := range reviews[1:] {
		if rv.CreatedAt.Before(first.CreatedAt) {
			first = rv
		}
	}
	return first, nil
}

func (r *firestoreReviewRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Review, error) {
	iter := r.client.Collection(reviewsPath).Where("provider_id", "==", providerID).Documents(ctx)
	return collectDocs(iter, "reviews", func(rv *entity.Review) string { return rv.ID })
}
