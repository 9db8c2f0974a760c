package handler

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/usecase"
	"servicemarket/pkg/response"
)

type DashboardHandler struct {
	dashboardUseCase *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboardUseCase *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUseCase: dashboardUseCase}
}

func (h *DashboardHandler) CustomerDashboard(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	dash, err := h.dashboardUseCase.CustomerDashboard(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, dash)
}
