package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/usecase"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/response"
	"servicemarket/pkg/utils"
)

const maxProviderLimit = 100

type ProviderHandler struct {
	providerUseCase *usecase.ProviderUseCase
}

func NewProviderHandler(providerUseCase *usecase.ProviderUseCase) *ProviderHandler {
	return &ProviderHandler{
		providerUseCase: providerUseCase,
	}
}

func (h *ProviderHandler) ListProviders(c echo.Context) error {
	filter := usecase.ProviderFilter{
		CategoryID:         c.QueryParam("category_id"),
		VerificationStatus: entity.VerificationStatus(c.QueryParam("verification_status")),
		Limit:              utils.QueryLimit(c, maxProviderLimit),
	}

	if v := c.QueryParam("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > entity.MaxRating {
			return response.Error(c, errors.BadRequest("Invalid min_rating value", err))
		}
		filter.MinRating = rating
	}
	if v := c.QueryParam("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid available value", err))
		}
		filter.AvailableOnly = available
	}

	providers, err := h.providerUseCase.GetServiceProviders(c.Request().Context(), filter)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, providers)
}

func (h *ProviderHandler) FeaturedProviders(c echo.Context) error {
	providers, err := h.providerUseCase.FeaturedProviders(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, providers)
}

func (h *ProviderHandler) GetProvider(c echo.Context) error {
	provider, err := h.providerUseCase.GetProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, provider)
}

func (h *ProviderHandler) Onboard(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req usecase.OnboardProviderInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.providerUseCase.OnboardProvider(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, profile)
}
