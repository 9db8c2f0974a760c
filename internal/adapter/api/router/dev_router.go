package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
)

// SetupDevRouter exposes token minting outside production only.
func SetupDevRouter(e *echo.Echo, production bool) {
	devTokenHandler := handler.GetDevTokenHandler()
	if production || devTokenHandler == nil {
		return
	}
	e.POST("/dev/token", devTokenHandler.GenerateToken)
}
