package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

type userRepository struct{ s *Store }

func NewUserRepository(s *Store) repository.UserRepository { return &userRepository{s: s} }

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return errors.BadRequest("User ID is required", nil)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return clone(user), nil
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[id]
	if !ok {
		current = &entity.User{ID: id}
	}
	withStamp := copyFields(fields)
	withStamp["updated_at"] = r.s.now()
	updated, err := merge(current, withStamp)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	updated.ID = id
	r.s.users[id] = updated
	return nil
}

type providerRepository struct{ s *Store }

func NewProviderRepository(s *Store) repository.ProviderRepository {
	return &providerRepository{s: s}
}

func (r *providerRepository) Create(ctx context.Context, provider *entity.ServiceProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.providers[provider.ID] = clone(provider)
	return nil
}

func (r *providerRepository) GetByID(ctx context.Context, id string) (*entity.ServiceProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	provider, ok := r.s.providers[id]
	if !ok {
		return nil, errors.NotFound("Service provider", nil)
	}
	return clone(provider), nil
}

func (r *providerRepository) List(ctx context.Context, status entity.VerificationStatus) ([]*entity.ServiceProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	providers := make([]*entity.ServiceProvider, 0, len(r.s.providers))
	for _, p := range r.s.providers {
		if status != "" && p.VerificationStatus != status {
			continue
		}
		providers = append(providers, clone(p))
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].ID < providers[j].ID })
	return providers, nil
}

func (r *providerRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.providers[id]
	if !ok {
		return errors.NotFound("Service provider", nil)
	}
	withStamp := copyFields(fields)
	withStamp["updated_at"] = r.s.now()
	updated, err := merge(current, withStamp)
	if err != nil {
		return errors.Internal("Failed to update service provider", err)
	}
	r.s.providers[id] = updated
	return nil
}

func (r *providerRepository) IncrementBookings(ctx context.Context, id string, total, completed int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.providers[id]
	if !ok {
		return errors.NotFound("Service provider", nil)
	}
	p.TotalBookings += total
	p.CompletedBookings += completed
	p.UpdatedAt = r.s.now()
	return nil
}

type bookingRepository struct{ s *Store }

func NewBookingRepository(s *Store) repository.BookingRepository {
	return &bookingRepository{s: s}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	booking.ID = fmt.Sprintf("booking-%06d", r.s.seq)
	r.s.bookings[booking.ID] = clone(booking)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}
	return clone(b), nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *bookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool { return b.ProviderID == providerID }), nil
}

func (r *bookingRepository) list(keep func(*entity.Booking) bool) []*entity.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bookings := make([]*entity.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			bookings = append(bookings, clone(b))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings
}

func (r *bookingRepository) Mutate(ctx context.Context, id string, fn repository.BookingMutation) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}
	working := clone(current)
	if err := fn(working, r.s.now()); err != nil {
		return nil, err
	}
	r.s.bookings[id] = clone(working)
	return working, nil
}

type reviewRepository struct{ s *Store }

func NewReviewRepository(s *Store) repository.ReviewRepository {
	return &reviewRepository{s: s}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	r.s.reviews[review.ID] = clone(review)
	return nil
}

func (r *reviewRepository) CreateAndAggregate(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.reviewClaims[review.BookingID]; taken {
		return errors.Conflict("Review for this booking already exists")
	}
	provider, ok := r.s.providers[review.ProviderID]
	if !ok {
		return errors.NotFound("Service provider", nil)
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	r.s.reviewClaims[review.BookingID] = review.ID
	r.s.reviews[review.ID] = clone(review)
	provider.AddRating(review.Rating, r.s.now())
	return nil
}

func (r *reviewRepository) RecomputeProviderRating(ctx context.Context, providerID string) (*entity.ServiceProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	provider, ok := r.s.providers[providerID]
	if !ok {
		return nil, errors.NotFound("Service provider", nil)
	}
	var (
		sum   float64
		count int
	)
	for _, review := range r.s.reviews {
		if review.ProviderID == providerID {
			sum += float64(review.Rating)
			count++
		}
	}
	if count > 0 {
		provider.SetRating(sum, count, r.s.now())
	}
	return clone(provider), nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return clone(review), nil
}

func (r *reviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var first *entity.Review
	for _, review := range r.s.reviews {
		if review.BookingID != bookingID {
			continue
		}
		if first == nil || review.CreatedAt.Before(first.CreatedAt) {
			first = review
		}
	}
	if first == nil {
		return nil, errors.NotFound("Review for booking", nil)
	}
	return clone(first), nil
}

func (r *reviewRepository) ListByProvider(ctx context.Context, providerID string) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reviews := make([]*entity.Review, 0)
	for _, review := range r.s.reviews {
		if review.ProviderID == providerID {
			reviews = append(reviews, clone(review))
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

type categoryRepository struct{ s *Store }

func NewCategoryRepository(s *Store) repository.CategoryRepository {
	return &categoryRepository{s: s}
}

func (r *categoryRepository) List(ctx context.Context) ([]*entity.ServiceCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := make([]*entity.ServiceCategory, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, clone(c))
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *categoryRepository) Upsert(ctx context.Context, category *entity.ServiceCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[category.ID] = clone(category)
	return nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// NewRepositories wires every repository to the same store.
func NewRepositories(s *Store) *repository.Repositories {
	return &repository.Repositories{
		Users:      NewUserRepository(s),
		Providers:  NewProviderRepository(s),
		Bookings:   NewBookingRepository(s),
		Reviews:    NewReviewRepository(s),
		Categories: NewCategoryRepository(s),
	}
}
