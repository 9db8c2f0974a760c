package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/usecase"
	"servicemarket/pkg/response"
	"servicemarket/pkg/utils"
)

const maxReviewLimit = 100

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req usecase.CreateReviewInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}
	req.BookingID = c.Param("id")

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, review)
}

func (h *ReviewHandler) GetBookingReview(c echo.Context) error {
	review, err := h.reviewUseCase.GetReviewByBookingID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

func (h *ReviewHandler) GetProviderReviews(c echo.Context) error {
	reviews, err := h.reviewUseCase.GetProviderReviews(c.Request().Context(), c.Param("id"), utils.QueryLimit(c, maxReviewLimit))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reviews)
}
