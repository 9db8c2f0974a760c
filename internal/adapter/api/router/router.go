package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupCatalogRouter(e, authMiddleware)
	SetupBookingRouter(e, authMiddleware, roleMiddleware)
	SetupUploadRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, roleMiddleware)
}
