package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
)

func TestSyncSession_CreatesCustomerOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	claims := usecase.SessionClaims{UID: "u1", Email: "asha@example.com", Name: "Asha", Picture: "https://img.example.com/a.png"}

	profile, err := f.users.SyncSession(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, profile.Role)
	assert.Equal(t, "Asha", profile.FullName)
	assert.True(t, profile.IsActive)
	assert.Nil(t, profile.Provider)

	require.NoError(t, f.repos.Users.Update(ctx, "u1", map[string]interface{}{"city": "Nagpur"}))

	again, err := f.users.SyncSession(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Nagpur", again.City)

	_, err = f.users.SyncSession(ctx, usecase.SessionClaims{})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestGetProfile_IncludesProvider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider(t, "prov")
	f.user(t, "dangling", entity.RoleProvider)

	profile, err := f.users.GetProfile(ctx, "prov")
	require.NoError(t, err)
	require.NotNil(t, profile.Provider)
	assert.Equal(t, "plumbing", profile.Provider.CategoryID)

	dangling, err := f.users.GetProfile(ctx, "dangling")
	require.NoError(t, err)
	assert.Nil(t, dangling.Provider)

	_, err = f.users.GetProfile(ctx, "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "u1", entity.RoleCustomer)

	profile, err := f.users.UpdateUserProfile(ctx, "u1", usecase.UpdateProfileInput{
		FullName:    ptr("Asha Rao"),
		PhoneNumber: ptr("9876543210"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.FullName)
	assert.Equal(t, "9876543210", profile.PhoneNumber)
	assert.Equal(t, "Pune", profile.City)
	assert.Equal(t, "u1@example.com", profile.Email)

	for _, phone := range []string{"12345", "98765abcde"} {
		_, err = f.users.UpdateUserProfile(ctx, "u1", usecase.UpdateProfileInput{PhoneNumber: ptr(phone)})
		assert.True(t, errors.Is(err, errors.CodeBadRequest), phone)
	}

	_, err = f.users.UpdateUserProfile(ctx, "u1", usecase.UpdateProfileInput{})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestSeedCategories_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	written, err := f.category.SeedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entity.DefaultCategories()), written)

	again, err := f.category.SeedCategories(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	categories, err := f.category.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, written)
}

func TestCustomerDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.category.SeedCategories(ctx)
	require.NoError(t, err)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")

	soon := f.booking(t, "cust", "prov", "2030-01-02")
	later := f.booking(t, "cust", "prov", "2030-03-01")
	dropped := f.booking(t, "cust", "prov", "2030-02-01")
	_, err = f.bookings.CancelBooking(ctx, dropped.ID, "cust", "")
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		b := f.booking(t, "cust", "prov", "2029-12-1"+string(rune('0'+i)))
		_, err := f.bookings.CancelBooking(ctx, b.ID, "prov", "")
		require.NoError(t, err)
	}

	dash, err := f.dashboard.CustomerDashboard(ctx, "cust")
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID, later.ID}, ids(dash.Upcoming))
	assert.Len(t, dash.Recent, 5)
	assert.Equal(t, dropped.ID, dash.Recent[0].ID)
	assert.Equal(t, 2, dash.Counts[entity.BookingPending])
	assert.Equal(t, 7, dash.Counts[entity.BookingCancelled])
	require.Len(t, dash.FeaturedProviders, 1)
	assert.Equal(t, "prov", dash.FeaturedProviders[0].ID)
	assert.NotEmpty(t, dash.Categories)
}
