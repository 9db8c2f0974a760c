package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/middleware"
	"servicemarket/internal/infrastructure/firebase"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/response"
)

type AuthHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewAuthHandler(userUseCase *usecase.UserUseCase) *AuthHandler {
	return &AuthHandler{
		userUseCase: userUseCase,
	}
}

// SyncSession is called by the clients right after sign-in.
func (h *AuthHandler) SyncSession(c echo.Context) error {
	identity, ok := c.Get(middleware.ContextIdentity).(*firebase.Identity)
	if !ok {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	profile, err := h.userUseCase.SyncSession(c.Request().Context(), usecase.SessionClaims{
		UID:     identity.UID,
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
