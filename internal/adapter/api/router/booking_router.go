package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupBookingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	bookingHandler := handler.GetBookingHandler()
	reviewHandler := handler.GetReviewHandler()

	bookings := e.Group("/api/bookings")
	bookings.Use(authMiddleware.Authenticate)
	bookings.Use(roleMiddleware.LoadUser)

	bookings.GET("", bookingHandler.ListBookings)
	bookings.POST("", bookingHandler.CreateBooking)
	bookings.GET("/:id", bookingHandler.GetBooking)
	bookings.PATCH("/:id/confirm", bookingHandler.ConfirmBooking)
	bookings.PATCH("/:id/start", bookingHandler.StartBooking)
	bookings.PATCH("/:id/complete", bookingHandler.CompleteBooking)
	bookings.PATCH("/:id/cancel", bookingHandler.CancelBooking)

	bookings.GET("/:id/review", reviewHandler.GetBookingReview)
	bookings.POST("/:id/review", reviewHandler.CreateReview)
}
