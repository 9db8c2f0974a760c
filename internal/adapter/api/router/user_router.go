package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	dashboardHandler := handler.GetDashboardHandler()

	users := e.Group("/api/users")
	users.Use(authMiddleware.Authenticate)
	users.GET("/me", userHandler.GetProfile)
	users.POST("/me", userHandler.UpdateProfile)

	dashboard := e.Group("/api/dashboard")
	dashboard.Use(authMiddleware.Authenticate)
	dashboard.GET("/customer", dashboardHandler.CustomerDashboard)
}
