package repository

import (
	"context"
	"sort"
	"time"

	"firebase.google.com/go/v4/db"
	"github.com/google/uuid"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

const (
	recomputeAttempts = 5
	// A claim still pending after this long belongs to a writer that died
	// between its steps and no longer blocks a recompute.
	pendingClaimGrace = time.Minute
)

var recomputeBackoff = 25 * time.Millisecond

// reviewClaim is stored at review_claims/{booking_id}. Pending stays set until
// the review's rating has been folded into the provider aggregate.
type reviewClaim struct {
	BookingID  string    `json:"-"`
	ReviewID   string    `json:"review_id"`
	ProviderID string    `json:"provider_id"`
	Pending    bool      `json:"pending"`
	ClaimedAt  time.Time `json:"claimed_at"`
}

func (c *reviewClaim) SetID(id string) { c.BookingID = id }

func (c *reviewClaim) inFlight(now time.Time) bool {
	return c.Pending && now.Sub(c.ClaimedAt) < pendingClaimGrace
}

type realtimeReviewRepository struct {
	client *db.Client
}

func NewRealtimeReviewRepository(client *db.Client) repository.ReviewRepository {
	return &realtimeReviewRepository{client: client}
}

func (r *realtimeReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.client.NewRef(childPath(reviewsPath, review.ID)).Set(ctx, review); err != nil {
		return errors.Internal("Failed to create review", err)
	}
	return nil
}

// CreateAndAggregate uses single-node transactions because the Realtime
// Database cannot span paths in one transaction: the claim on
// review_claims/{booking_id} is the uniqueness point, and later failures undo
// the earlier steps.
func (r *realtimeReviewRepository) CreateAndAggregate(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	claimRef := r.client.NewRef(childPath(reviewClaimsPath, review.BookingID))
	var conflict bool
	err := claimRef.Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var existing *reviewClaim
		if err := node.Unmarshal(&existing); err != nil {
			return nil, err
		}
		if existing != nil && existing.ReviewID != review.ID {
			conflict = true
			return nil, errors.Conflict("Review for this booking already exists")
		}
		return &reviewClaim{
			ReviewID:   review.ID,
			ProviderID: review.ProviderID,
			Pending:    true,
			ClaimedAt:  time.Now(),
		}, nil
	})
	if conflict {
		return errors.Conflict("Review for this booking already exists")
	}
	if err != nil {
		return errors.Internal("Failed to claim review slot", err)
	}

	if err := r.Create(ctx, review); err != nil {
		r.release(ctx, claimRef, nil)
		return err
	}

	_, err = transactDocument(ctx, r.client, providersPath, review.ProviderID, func(p *entity.ServiceProvider) (*entity.ServiceProvider, error) {
		if p == nil {
			return nil, errors.NotFound("Service provider", nil)
		}
		p.AddRating(review.Rating, time.Now())
		return p, nil
	})
	if err != nil {
		r.release(ctx, claimRef, r.client.NewRef(childPath(reviewsPath, review.ID)))
		return err
	}

	if err := claimRef.Update(ctx, map[string]interface{}{"pending": false}); err != nil {
		logger.Warn("failed to settle review claim %s: %v", review.BookingID, err)
	}
	return nil
}

func (r *realtimeReviewRepository) release(ctx context.Context, claimRef, reviewRef *db.Ref) {
	if reviewRef != nil {
		if err := reviewRef.Delete(ctx); err != nil {
			logger.Error("failed to roll back review %s: %v", reviewRef.Key, err)
		}
	}
	if err := claimRef.Delete(ctx); err != nil {
		logger.Error("failed to release review claim %s: %v", claimRef.Key, err)
	}
}

// RecomputeProviderRating lists the reviews outside any transaction, so it
// only writes when nothing moved underneath: no claim for the provider is in
// flight and the aggregate still matches what was read before listing.
// Otherwise it starts over.
func (r *realtimeReviewRepository) RecomputeProviderRating(ctx context.Context, providerID string) (*entity.ServiceProvider, error) {
	errMoved := errors.Conflict("Provider rating changed during recompute")

	for attempt := 0; attempt < recomputeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Internal("Rating recompute cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt) * recomputeBackoff):
			}
		}

		base, err := getDocument[entity.ServiceProvider](ctx, r.client, providersPath, providerID)
		if err != nil {
			return nil, err
		}
		if base == nil {
			return nil, errors.NotFound("Service provider", nil)
		}

		reviews, err := r.ListByProvider(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if len(reviews) == 0 {
			return base, nil
		}

		busy, err := r.hasClaimInFlight(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if busy {
			logger.Debug("rating recompute for %s waiting on an in-flight review", providerID)
			continue
		}

		var sum float64
		for _, rv := range reviews {
			sum += float64(rv.Rating)
		}
		updated, err := transactDocument(ctx, r.client, providersPath, providerID, func(current *entity.ServiceProvider) (*entity.ServiceProvider, error) {
			if current == nil {
				return nil, errors.NotFound("Service provider", nil)
			}
			if current.TotalReviews != base.TotalReviews || current.RatingSum != base.RatingSum {
				return nil, errMoved
			}
			current.SetRating(sum, len(reviews), time.Now())
			return current, nil
		})
		if err == errMoved {
			logger.Debug("rating aggregate for %s moved during recompute, retrying", providerID)
			continue
		}
		return updated, err
	}
	return nil, errors.Conflict("Provider rating is being updated, try again")
}

func (r *realtimeReviewRepository) hasClaimInFlight(ctx context.Context, providerID string) (bool, error) {
	claims, err := queryEqual(ctx, r.client, reviewClaimsPath, "provider_id", providerID,
		func(c *reviewClaim) bool { return c.ProviderID == providerID })
	if err != nil {
		return false, err
	}
	now := time.Now()
	for _, c := range claims {
		if c.inFlight(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *realtimeReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	review, err := getDocument[entity.Review](ctx, r.client, reviewsPath, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.NotFound("Review", nil)
	}
	return review, nil
}

func (r *realtimeReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*entity.Review, error) {
	reviews, err := queryEqual(ctx, r.client, reviewsPath, "booking_id", bookingID,
		func(rv *entity.Review) bool { return rv.BookingID == bookingID })
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, errors.NotFound("Review for booking", nil)
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.Before(reviews[j].CreatedAt) })
	return reviews[0], nil
}

func (r *realtimeReviewRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Review, error) {
	return queryEqual(ctx, r.client, reviewsPath, "provider_id", providerID,
		func(rv *entity.Review) bool { return rv.ProviderID == providerID })
}
