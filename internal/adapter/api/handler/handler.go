package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/middleware"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	categoryHandler  *CategoryHandler
	providerHandler  *ProviderHandler
	bookingHandler   *BookingHandler
	reviewHandler    *ReviewHandler
	dashboardHandler *DashboardHandler
	adminHandler     *AdminHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	providerUseCase *usecase.ProviderUseCase,
	bookingUseCase *usecase.BookingUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	dashboardUseCase *usecase.DashboardUseCase,
) {
	authHandler = NewAuthHandler(userUseCase)
	userHandler = NewUserHandler(userUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
	providerHandler = NewProviderHandler(providerUseCase)
	bookingHandler = NewBookingHandler(bookingUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	dashboardHandler = NewDashboardHandler(dashboardUseCase)
	adminHandler = NewAdminHandler(providerUseCase, reviewUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func GetProviderHandler() *ProviderHandler {
	return providerHandler
}

func GetBookingHandler() *BookingHandler {
	return bookingHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func currentUID(c echo.Context) (string, error) {
	uid, ok := c.Get(middleware.ContextUID).(string)
	if !ok || uid == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}
