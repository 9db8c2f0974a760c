package entity

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID               string    `json:"id,omitempty" firestore:"-"`
	BookingID        string    `json:"booking_id" firestore:"booking_id"`
	CustomerID       string    `json:"customer_id" firestore:"customer_id"`
	ProviderID       string    `json:"provider_id" firestore:"provider_id"`
	Rating           int       `json:"rating" firestore:"rating"`
	ReviewText       string    `json:"review_text" firestore:"review_text"`
	ReviewImages     []string  `json:"review_images" firestore:"review_images"`
	HelpfulVotes     int       `json:"helpful_votes" firestore:"helpful_votes"`
	UnhelpfulVotes   int       `json:"unhelpful_votes" firestore:"unhelpful_votes"`
	ProviderResponse *string   `json:"provider_response" firestore:"provider_response"`
	CreatedAt        time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updated_at"`
}

func (r *Review) SetID(id string) { r.ID = id }

func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("review %s: rating %d outside [%d,%d]", r.ID, r.Rating, MinRating, MaxRating)
	}
	if r.BookingID == "" || r.ProviderID == "" {
		return fmt.Errorf("review %s: booking_id and provider_id are required", r.ID)
	}
	return nil
}

// ApplyDefaults fills the fields a freshly written review always starts with.
func (r *Review) ApplyDefaults(at time.Time) {
	if r.ReviewImages == nil {
		r.ReviewImages = []string{}
	}
	r.HelpfulVotes = 0
	r.UnhelpfulVotes = 0
	r.ProviderResponse = nil
	r.CreatedAt = at
	r.UpdatedAt = at
}
