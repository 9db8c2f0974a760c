package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
)

// ProviderQuery mirrors the filters accepted by GET /api/providers.
type ProviderQuery struct {
	CategoryID         string
	VerificationStatus entity.VerificationStatus
	MinRating          float64
	AvailableOnly      bool
	Limit              int
}

func (q ProviderQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID != "" {
		v.Set("category_id", q.CategoryID)
	}
	if q.VerificationStatus != "" {
		v.Set("verification_status", string(q.VerificationStatus))
	}
	if q.MinRating > 0 {
		v.Set("min_rating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.AvailableOnly {
		v.Set("available", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) SyncSession(ctx context.Context) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.Do(ctx, http.MethodPost, "/api/auth/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.Do(ctx, http.MethodGet, "/api/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.Do(ctx, http.MethodPost, "/api/users/me", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]*entity.ServiceCategory, error) {
	out := []*entity.ServiceCategory{}
	if err := c.Do(ctx, http.MethodGet, "/api/service-categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProviders(ctx context.Context, q ProviderQuery) ([]*entity.ProviderListing, error) {
	out := []*entity.ProviderListing{}
	if err := c.Do(ctx, http.MethodGet, "/api/providers", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FeaturedProviders(ctx context.Context) ([]*entity.ProviderListing, error) {
	out := []*entity.ProviderListing{}
	if err := c.Do(ctx, http.MethodGet, "/api/providers/featured", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProvider(ctx context.Context, id string) (*entity.ProviderListing, error) {
	var out entity.ProviderListing
	if err := c.Do(ctx, http.MethodGet, "/api/providers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProviderReviews(ctx context.Context, providerID string, limit int) ([]*entity.Review, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	out := []*entity.Review{}
	if err := c.Do(ctx, http.MethodGet, "/api/providers/"+url.PathEscape(providerID)+"/reviews", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OnboardProvider(ctx context.Context, input usecase.OnboardProviderInput) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.Do(ctx, http.MethodPost, "/api/providers/onboard", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// ListBookings fetches one page of the caller's bookings. page and pageSize
// fall back to the server defaults when zero.
func (c *Client) ListBookings(ctx context.Context, role entity.UserRole, status entity.BookingStatus, page, pageSize int) (*Page[entity.Booking], error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", string(role))
	}
	if status != "" {
		q.Set("status", string(status))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("limit", strconv.Itoa(pageSize))
	}
	var out Page[entity.Booking]
	if err := c.Do(ctx, http.MethodGet, "/api/bookings", q, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []*entity.Booking{}
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, input usecase.CreateBookingInput) (*entity.Booking, error) {
	var out entity.Booking
	if err := c.Do(ctx, http.MethodPost, "/api/bookings", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*entity.Booking, error) {
	var out entity.Booking
	if err := c.Do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmBooking(ctx context.Context, id string) (*entity.Booking, error) {
	return c.transition(ctx, id, "confirm", nil)
}

func (c *Client) StartBooking(ctx context.Context, id string) (*entity.Booking, error) {
	return c.transition(ctx, id, "start", nil)
}

func (c *Client) CompleteBooking(ctx context.Context, id string, finalPrice *float64) (*entity.Booking, error) {
	return c.transition(ctx, id, "complete", map[string]interface{}{"final_price": finalPrice})
}

func (c *Client) CancelBooking(ctx context.Context, id, reason string) (*entity.Booking, error) {
	return c.transition(ctx, id, "cancel", map[string]interface{}{"reason": reason})
}

func (c *Client) transition(ctx context.Context, id, action string, body interface{}) (*entity.Booking, error) {
	var out entity.Booking
	if err := c.Do(ctx, http.MethodPatch, "/api/bookings/"+url.PathEscape(id)+"/"+action, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBookingReview(ctx context.Context, bookingID string) (*entity.Review, error) {
	var out entity.Review
	if err := c.Do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(bookingID)+"/review", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReview(ctx context.Context, input usecase.CreateReviewInput) (*entity.Review, error) {
	var out entity.Review
	path := "/api/bookings/" + url.PathEscape(input.BookingID) + "/review"
	if err := c.Do(ctx, http.MethodPost, path, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CustomerDashboard(ctx context.Context) (*usecase.CustomerDashboard, error) {
	var out usecase.CustomerDashboard
	if err := c.Do(ctx, http.MethodGet, "/api/dashboard/customer", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
