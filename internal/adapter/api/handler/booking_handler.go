package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/middleware"
	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/response"
	"servicemarket/pkg/utils"
)

type BookingHandler struct {
	bookingUseCase *usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

type completeBookingRequest struct {
	FinalPrice *float64 `json:"final_price" validate:"omitempty,gte=0"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ListBookings pages through the caller's bookings. role defaults to the
// caller's own role when it is a provider, customer otherwise.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	role := entity.UserRole(c.QueryParam("role"))
	if role == "" {
		role = entity.RoleCustomer
		if middleware.CurrentRole(c) == entity.RoleProvider {
			role = entity.RoleProvider
		}
	}

	bookings, err := h.bookingUseCase.GetUserBookings(c.Request().Context(), uid, role, entity.BookingStatus(c.QueryParam("status")))
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	page, total := utils.Page(bookings, params)
	return response.Paginated(c, page, total, params.Page, params.PageSize)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req usecase.CreateBookingInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUseCase.CreateBooking(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, booking)
}

// GetBooking is visible to the booking's customer and provider and to admins.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUseCase.GetBookingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	if !booking.IsParticipant(uid) && middleware.CurrentRole(c) != entity.RoleAdmin {
		return response.Error(c, errors.Forbidden("You are not part of this booking", nil))
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}
	booking, err := h.bookingUseCase.ConfirmBooking(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) StartBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}
	booking, err := h.bookingUseCase.StartBooking(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req completeBookingRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return response.Error(c, err)
		}
	}

	booking, err := h.bookingUseCase.CompleteBooking(c.Request().Context(), c.Param("id"), uid, req.FinalPrice)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req cancelBookingRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return response.Error(c, err)
		}
	}

	booking, err := h.bookingUseCase.CancelBooking(c.Request().Context(), c.Param("id"), uid, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, booking)
}
