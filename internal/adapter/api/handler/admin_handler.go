package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/logger"
	"servicemarket/pkg/response"
)

type AdminHandler struct {
	providerUseCase *usecase.ProviderUseCase
	reviewUseCase   *usecase.ReviewUseCase
}

func NewAdminHandler(providerUseCase *usecase.ProviderUseCase, reviewUseCase *usecase.ReviewUseCase) *AdminHandler {
	return &AdminHandler{
		providerUseCase: providerUseCase,
		reviewUseCase:   reviewUseCase,
	}
}

type verificationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected suspended"`
}

func (h *AdminHandler) SetVerificationStatus(c echo.Context) error {
	var req verificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	provider, err := h.providerUseCase.SetVerificationStatus(c.Request().Context(), c.Param("id"), entity.VerificationStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}
	logger.Info("admin %v set provider %s verification to %s", c.Get("uid"), provider.ID, req.Status)
	return response.Success(c, provider)
}

func (h *AdminHandler) RecalculateRating(c echo.Context) error {
	provider, err := h.reviewUseCase.UpdateProviderRating(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, provider)
}

// ReconcileRatings recomputes every provider. Partial failures are reported
// alongside the number of providers that were processed.
func (h *AdminHandler) ReconcileRatings(c echo.Context) error {
	updated, err := h.reviewUseCase.ReconcileAllRatings(c.Request().Context())
	result := map[string]interface{}{"updated": updated}
	if err != nil {
		if updated == 0 {
			return response.Error(c, err)
		}
		result["error"] = err.Error()
	}
	return response.Success(c, result)
}
