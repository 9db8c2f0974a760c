package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"servicemarket/internal/domain/entity"
)

func TestServiceProviderAddRating(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &entity.ServiceProvider{ID: "p1"}

	p.AddRating(4, at)
	assert.Equal(t, 1, p.TotalReviews)
	assert.InDelta(t, 4.0, p.RatingSum, 1e-9)
	assert.InDelta(t, 4.0, p.AverageRating, 1e-9)

	p.AddRating(2, at.Add(time.Hour))
	assert.Equal(t, 2, p.TotalReviews)
	assert.InDelta(t, 6.0, p.RatingSum, 1e-9)
	assert.InDelta(t, 3.0, p.AverageRating, 1e-9)
	assert.Equal(t, at.Add(time.Hour), p.UpdatedAt)
}

func TestServiceProviderSetRating(t *testing.T) {
	at := time.Now()
	p := &entity.ServiceProvider{ID: "p1", RatingSum: 99, TotalReviews: 3, AverageRating: 33}

	p.SetRating(9, 2, at)
	assert.Equal(t, 2, p.TotalReviews)
	assert.InDelta(t, 4.5, p.AverageRating, 1e-9)

	p.SetRating(0, 0, at)
	assert.Equal(t, 0, p.TotalReviews)
	assert.Zero(t, p.AverageRating)
}

func TestServiceProviderValidate(t *testing.T) {
	assert.NoError(t, (&entity.ServiceProvider{ID: "p1"}).Validate())
	assert.NoError(t, (&entity.ServiceProvider{ID: "p1", VerificationStatus: entity.VerificationVerified}).Validate())
	assert.Error(t, (&entity.ServiceProvider{ID: "p1", VerificationStatus: "maybe"}).Validate())
	assert.Error(t, (&entity.ServiceProvider{ID: "p1", TotalReviews: -1}).Validate())
}

func TestReviewValidateAndDefaults(t *testing.T) {
	r := &entity.Review{BookingID: "b1", ProviderID: "p1", Rating: 5}
	assert.NoError(t, r.Validate())

	for _, rating := range []int{0, 6, -1} {
		bad := &entity.Review{BookingID: "b1", ProviderID: "p1", Rating: rating}
		assert.Error(t, bad.Validate(), "rating %d", rating)
	}
	assert.Error(t, (&entity.Review{ProviderID: "p1", Rating: 3}).Validate())

	response := "thanks"
	at := time.Now()
	r.HelpfulVotes = 7
	r.ProviderResponse = &response
	r.ApplyDefaults(at)
	assert.NotNil(t, r.ReviewImages)
	assert.Empty(t, r.ReviewImages)
	assert.Zero(t, r.HelpfulVotes)
	assert.Nil(t, r.ProviderResponse)
	assert.Equal(t, at, r.CreatedAt)
	assert.Equal(t, at, r.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, (&entity.User{ID: "u1", Role: entity.RoleCustomer}).Validate())
	assert.NoError(t, (&entity.User{ID: "u1"}).Validate())
	assert.Error(t, (&entity.User{ID: "u1", Role: "superuser"}).Validate())
}

func TestDefaultCategoriesAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range entity.DefaultCategories() {
		assert.NoError(t, c.Validate())
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate category %s", c.ID)
		seen[c.ID] = true
	}
}
