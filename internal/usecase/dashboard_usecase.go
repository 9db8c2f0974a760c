package usecase

import (
	"context"

	"servicemarket/internal/domain/entity"
)

const recentBookingCount = 5

type CustomerDashboard struct {
	Upcoming          []*entity.Booking            `json:"upcoming"`
	Recent            []*entity.Booking            `json:"recent"`
	Counts            map[entity.BookingStatus]int `json:"counts"`
	FeaturedProviders []*entity.ProviderListing    `json:"featured_providers"`
	Categories        []*entity.ServiceCategory    `json:"categories"`
}

type DashboardUseCase struct {
	bookings   *BookingUseCase
	providers  *ProviderUseCase
	categories *CategoryUseCase
}

func NewDashboardUseCase(bookings *BookingUseCase, providers *ProviderUseCase, categories *CategoryUseCase) *DashboardUseCase {
	return &DashboardUseCase{
		bookings:   bookings,
		providers:  providers,
		categories: categories,
	}
}

// CustomerDashboard gathers the customer's home screen: active bookings
// soonest first, the latest finished bookings, per-status counts and the
// catalogue highlights.
func (uc *DashboardUseCase) CustomerDashboard(ctx context.Context, uid string) (*CustomerDashboard, error) {
	bookings, err := uc.bookings.GetUserBookings(ctx, uid, entity.RoleCustomer, "")
	if err != nil {
		return nil, err
	}

	dash := &CustomerDashboard{
		Upcoming: []*entity.Booking{},
		Recent:   []*entity.Booking{},
		Counts:   make(map[entity.BookingStatus]int),
	}
	for _, b := range bookings {
		dash.Counts[b.Status]++
		if b.Status.Active() {
			dash.Upcoming = append(dash.Upcoming, b)
		} else if len(dash.Recent) < recentBookingCount {
			dash.Recent = append(dash.Recent, b)
		}
	}
	SortBookingsBySchedule(dash.Upcoming, false)

	if dash.FeaturedProviders, err = uc.providers.FeaturedProviders(ctx); err != nil {
		return nil, err
	}
	if dash.Categories, err = uc.categories.ListCategories(ctx); err != nil {
		return nil, err
	}
	return dash, nil
}
