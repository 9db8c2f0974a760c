package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
)

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")

	b, err := f.bookings.CreateBooking(ctx, "cust", usecase.CreateBookingInput{
		ProviderID:      "prov",
		BookingDate:     "2030-1-5",
		BookingTime:     "09:30",
		DurationMinutes: 90,
		ServiceAddress:  "12 MG Road",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, entity.BookingPending, b.Status)
	assert.Equal(t, entity.PaymentPending, b.PaymentStatus)
	assert.InDelta(t, 750.0, b.EstimatedPrice, 1e-9)

	p, err := f.repos.Providers.GetByID(ctx, "prov")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalBookings)
	assert.Equal(t, 0, p.CompletedBookings)
}

func TestCreateBooking_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")
	valid := usecase.CreateBookingInput{ProviderID: "prov", BookingDate: "2030-01-05", BookingTime: "10:00", ServiceAddress: "x"}

	_, err := f.bookings.CreateBooking(ctx, "prov", valid)
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "self booking: %v", err)

	badDate := valid
	badDate.BookingDate = "05/01/2030"
	_, err = f.bookings.CreateBooking(ctx, "cust", badDate)
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "bad date: %v", err)

	unknown := valid
	unknown.ProviderID = "ghost"
	_, err = f.bookings.CreateBooking(ctx, "cust", unknown)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, f.repos.Providers.Update(ctx, "prov", map[string]interface{}{"is_available": false}))
	_, err = f.bookings.CreateBooking(ctx, "cust", valid)
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "unavailable: %v", err)
}

func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")
	b := f.booking(t, "cust", "prov", "2030-01-10")

	_, err := f.bookings.ConfirmBooking(ctx, b.ID, "cust")
	assert.True(t, errors.Is(err, errors.CodeForbidden), "customer cannot confirm: %v", err)

	_, err = f.bookings.CompleteBooking(ctx, b.ID, "prov", nil)
	assert.True(t, errors.Is(err, errors.CodeConflict), "pending cannot complete: %v", err)

	confirmed, err := f.bookings.ConfirmBooking(ctx, b.ID, "prov")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingConfirmed, confirmed.Status)

	started, err := f.bookings.StartBooking(ctx, b.ID, "prov")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingInProgress, started.Status)

	done, err := f.bookings.CompleteBooking(ctx, b.ID, "prov", ptr(620.0))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingCompleted, done.Status)
	require.NotNil(t, done.FinalPrice)
	assert.InDelta(t, 620.0, *done.FinalPrice, 1e-9)
	assert.NotNil(t, done.CompletedAt)

	_, err = f.bookings.CancelBooking(ctx, b.ID, "cust", "too late")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	p, err := f.repos.Providers.GetByID(ctx, "prov")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedBookings)

	stored, err := f.bookings.GetBookingByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingCompleted, stored.Status)
}

func TestCompleteBooking_DefaultsToEstimate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")
	b := f.booking(t, "cust", "prov", "2030-01-10")

	_, err := f.bookings.ConfirmBooking(ctx, b.ID, "prov")
	require.NoError(t, err)
	_, err = f.bookings.StartBooking(ctx, b.ID, "prov")
	require.NoError(t, err)

	_, err = f.bookings.CompleteBooking(ctx, b.ID, "prov", ptr(-1.0))
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	done, err := f.bookings.CompleteBooking(ctx, b.ID, "prov", nil)
	require.NoError(t, err)
	require.NotNil(t, done.FinalPrice)
	assert.InDelta(t, b.EstimatedPrice, *done.FinalPrice, 1e-9)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.user(t, "stranger", entity.RoleCustomer)
	f.provider(t, "prov")
	b := f.booking(t, "cust", "prov", "2030-01-10")

	_, err := f.bookings.CancelBooking(ctx, b.ID, "stranger", "")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	cancelled, err := f.bookings.CancelBooking(ctx, b.ID, "prov", "sick")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingCancelled, cancelled.Status)
	assert.Equal(t, "prov", cancelled.CancelledBy)
	assert.Equal(t, "sick", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = f.bookings.CancelBooking(ctx, b.ID, "cust", "")
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestCancelBooking_RefundsCompletedPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")
	b := f.booking(t, "cust", "prov", "2030-01-10")

	_, err := f.repos.Bookings.Mutate(ctx, b.ID, func(b *entity.Booking, _ time.Time) error {
		b.PaymentStatus = entity.PaymentCompleted
		return nil
	})
	require.NoError(t, err)

	cancelled, err := f.bookings.CancelBooking(ctx, b.ID, "cust", "")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRefunded, cancelled.PaymentStatus)
}

func TestGetUserBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "cust", entity.RoleCustomer)
	f.provider(t, "prov")

	early := f.booking(t, "cust", "prov", "2030-1-2")
	late := f.booking(t, "cust", "prov", "2030-01-20")
	mid := f.booking(t, "cust", "prov", "2030-1-9")
	_, err := f.bookings.ConfirmBooking(ctx, mid.ID, "prov")
	require.NoError(t, err)

	asCustomer, err := f.bookings.GetUserBookings(ctx, "cust", entity.RoleCustomer, "")
	require.NoError(t, err)
	require.Len(t, asCustomer, 3)
	assert.Equal(t, []string{late.ID, mid.ID, early.ID}, ids(asCustomer))

	asProvider, err := f.bookings.GetUserBookings(ctx, "prov", entity.RoleProvider, entity.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []string{mid.ID}, ids(asProvider))

	_, err = f.bookings.GetUserBookings(ctx, "cust", entity.RoleAdmin, "")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = f.bookings.GetUserBookings(ctx, "cust", entity.RoleCustomer, "lost")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestSortBookingsBySchedule_UnparseableLast(t *testing.T) {
	bookings := []*entity.Booking{
		{ID: "broken", BookingDate: "soon"},
		{ID: "b", BookingDate: "2030-02-01", BookingTime: "08:00"},
		{ID: "a", BookingDate: "2030-02-01", BookingTime: "18:00"},
		{ID: "c", BookingDate: "2029-12-31"},
	}

	usecase.SortBookingsBySchedule(bookings, false)
	assert.Equal(t, []string{"c", "b", "a", "broken"}, ids(bookings))

	usecase.SortBookingsBySchedule(bookings, true)
	assert.Equal(t, []string{"a", "b", "c", "broken"}, ids(bookings))
}

func ids(bookings []*entity.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}
