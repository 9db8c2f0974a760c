package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupUploadRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	e.POST("/api/uploads", fileHandler.UploadFile,
		echomw.BodyLimit("6M"),
		authMiddleware.Authenticate,
	)
}
