package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/response"
)

type DevTokenIssuer interface {
	GenerateDevToken(ctx context.Context, uid string) (string, error)
}

// DevTokenHandler mints tokens for existing users so the API can be exercised
// without a front end. It is only routed outside production.
type DevTokenHandler struct {
	issuer   DevTokenIssuer
	userRepo repository.UserRepository
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(issuer DevTokenIssuer, userRepo repository.UserRepository) *DevTokenHandler {
	return &DevTokenHandler{
		issuer:   issuer,
		userRepo: userRepo,
	}
}

func SetupDevTokenHandler(issuer DevTokenIssuer, userRepo repository.UserRepository) {
	devTokenHandler = NewDevTokenHandler(issuer, userRepo)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, err)
	}

	token, err := h.issuer.GenerateDevToken(c.Request().Context(), user.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}
