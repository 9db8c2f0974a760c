package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/api/auth")
	auth.Use(authMiddleware.Authenticate)
	auth.POST("/session", authHandler.SyncSession)
}
