package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"servicemarket/internal/adapter/repository/memory"
	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/internal/infrastructure/cache"
	"servicemarket/internal/usecase"
)

type fixture struct {
	repos     *repository.Repositories
	users     *usecase.UserUseCase
	providers *usecase.ProviderUseCase
	bookings  *usecase.BookingUseCase
	reviews   *usecase.ReviewUseCase
	category  *usecase.CategoryUseCase
	dashboard *usecase.DashboardUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	c := cache.Noop{}

	f := &fixture{repos: repos}
	f.users = usecase.NewUserUseCase(repos.Users, repos.Providers)
	f.providers = usecase.NewProviderUseCase(repos.Providers, repos.Users, repos.Categories, c)
	f.bookings = usecase.NewBookingUseCase(repos.Bookings, repos.Providers)
	f.reviews = usecase.NewReviewUseCase(repos.Reviews, repos.Bookings, repos.Providers, c)
	f.category = usecase.NewCategoryUseCase(repos.Categories, c)
	f.dashboard = usecase.NewDashboardUseCase(f.bookings, f.providers, f.category)
	return f
}

func (f *fixture) user(t *testing.T, id string, role entity.UserRole) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "User " + id,
		City:     "Pune",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) provider(t *testing.T, id string) *entity.ServiceProvider {
	t.Helper()
	f.user(t, id, entity.RoleProvider)
	p, err := f.providers.CreateServiceProvider(context.Background(), usecase.CreateProviderInput{
		ID:                 id,
		CategoryID:         "plumbing",
		HourlyRate:         500,
		VerificationStatus: entity.VerificationVerified,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) booking(t *testing.T, customerID, providerID, date string) *entity.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), customerID, usecase.CreateBookingInput{
		ProviderID:      providerID,
		BookingDate:     date,
		BookingTime:     "10:00",
		DurationMinutes: 60,
		ServiceAddress:  "12 MG Road",
	})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }

var day = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
