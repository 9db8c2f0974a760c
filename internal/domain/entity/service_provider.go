package entity

import (
	"fmt"
	"time"
)

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationVerified  VerificationStatus = "verified"
	VerificationRejected  VerificationStatus = "rejected"
	VerificationSuspended VerificationStatus = "suspended"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationSuspended:
		return true
	}
	return false
}

// ServiceProvider extends the User with the same id. The rating fields are an
// aggregate over the provider's reviews: AverageRating == RatingSum / TotalReviews.
type ServiceProvider struct {
	ID                 string             `json:"id,omitempty" firestore:"-"`
	CategoryID         string             `json:"category_id" firestore:"category_id"`
	ExperienceYears    int                `json:"experience_years" firestore:"experience_years"`
	HourlyRate         float64            `json:"hourly_rate" firestore:"hourly_rate"`
	ServiceDescription string             `json:"service_description" firestore:"service_description"`
	ServicesOffered    []string           `json:"services_offered" firestore:"services_offered"`
	PortfolioImages    []string           `json:"portfolio_images" firestore:"portfolio_images"`
	VerificationStatus VerificationStatus `json:"verification_status" firestore:"verification_status"`
	AverageRating      float64            `json:"average_rating" firestore:"average_rating"`
	TotalReviews       int                `json:"total_reviews" firestore:"total_reviews"`
	RatingSum          float64            `json:"rating_sum" firestore:"rating_sum"`
	TotalBookings      int                `json:"total_bookings" firestore:"total_bookings"`
	CompletedBookings  int                `json:"completed_bookings" firestore:"completed_bookings"`
	IsAvailable        bool               `json:"is_available" firestore:"is_available"`
	CreatedAt          time.Time          `json:"created_at" firestore:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" firestore:"updated_at"`
}

func (p *ServiceProvider) SetID(id string) { p.ID = id }

func (p *ServiceProvider) Validate() error {
	if p.VerificationStatus != "" && !p.VerificationStatus.Valid() {
		return fmt.Errorf("service provider %s: unknown verification status %q", p.ID, p.VerificationStatus)
	}
	if p.TotalReviews < 0 || p.TotalBookings < 0 || p.CompletedBookings < 0 {
		return fmt.Errorf("service provider %s: negative counter", p.ID)
	}
	return nil
}

// AddRating folds one more review into the running aggregate.
func (p *ServiceProvider) AddRating(rating int, at time.Time) {
	p.RatingSum += float64(rating)
	p.TotalReviews++
	p.AverageRating = p.RatingSum / float64(p.TotalReviews)
	p.UpdatedAt = at
}

// SetRating replaces the aggregate with values recomputed from the full review set.
func (p *ServiceProvider) SetRating(sum float64, count int, at time.Time) {
	p.RatingSum = sum
	p.TotalReviews = count
	p.AverageRating = 0
	if count > 0 {
		p.AverageRating = sum / float64(count)
	}
	p.UpdatedAt = at
}

// ProviderListing is what marketplace screens render: the provider record plus
// the trimmed user it extends.
type ProviderListing struct {
	*ServiceProvider
	Users UserSummary `json:"users"`
}
