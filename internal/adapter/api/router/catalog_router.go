package router

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/adapter/api/handler"
	"servicemarket/internal/adapter/api/middleware"
)

func SetupCatalogRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	categoryHandler := handler.GetCategoryHandler()
	providerHandler := handler.GetProviderHandler()
	reviewHandler := handler.GetReviewHandler()

	e.GET("/api/service-categories", categoryHandler.ListCategories)

	providers := e.Group("/api/providers")
	providers.GET("", providerHandler.ListProviders)
	providers.GET("/featured", providerHandler.FeaturedProviders)
	providers.GET("/:id", providerHandler.GetProvider)
	providers.GET("/:id/reviews", reviewHandler.GetProviderReviews)
	providers.POST("/onboard", providerHandler.Onboard, authMiddleware.Authenticate)
}
