package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/usecase"
	"servicemarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	profile, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req usecase.UpdateProfileInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.userUseCase.UpdateUserProfile(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
