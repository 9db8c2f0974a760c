package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/api/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(roleMiddleware.AdminOnly)

	admin.PATCH("/providers/:id/verification", adminHandler.SetVerificationStatus)
	admin.POST("/providers/:id/recalculate-rating", adminHandler.RecalculateRating)
	admin.POST("/ratings/reconcile", adminHandler.ReconcileRatings)
}
