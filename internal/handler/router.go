package handler

import (
	"slices"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/middleware"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services: сервисы, которые обслуживает роутер
type Services struct {
	Listings service.ListingService
	Clicks   service.ClickService
	Stats    service.StatsService
	Regions  service.RegionService
}

func NewRouter(
	services Services,
	health *HealthHandler,
	rateLimiter *middleware.RateLimiter,
	authenticator *middleware.Authenticator,
	corsOrigins []string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	if len(corsOrigins) > 0 {
		router.Use(cors.New(corsConfig(corsOrigins)))
	}

	// Rate limiting для всех запросов
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware())
	}

	listingHandler := NewListingHandler(services.Listings, services.Clicks, logger)
	regionHandler := NewRegionHandler(services.Regions, logger)
	statsHandler := NewStatsHandler(services.Stats, services.Clicks, logger)

	// API v.1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health.HealthCheck)

		v1.GET("/listings", listingHandler.ListListings)
		v1.GET("/listings/:id", listingHandler.GetListing)
		v1.POST("/listings/:id/click", listingHandler.RecordClick)

		v1.GET("/regions", regionHandler.ListRegions)
		v1.GET("/regions/:id", regionHandler.GetRegion)
		v1.GET("/subregions", regionHandler.ListSubRegions)
		v1.GET("/subregions/:id", regionHandler.GetSubRegion)
	}

	// Все административные маршруты проходят через одну проверку роли
	admin := v1.Group("", authenticator.RequireAdmin())
	{
		admin.POST("/listings", listingHandler.CreateListing)
		admin.PUT("/listings/:id", listingHandler.UpdateListing)
		admin.DELETE("/listings/:id", listingHandler.DeleteListing)
		admin.POST("/listings/:id/reset-clicks", listingHandler.ResetClicks)

		admin.POST("/regions", regionHandler.CreateRegion)
		admin.PUT("/regions/:id", regionHandler.UpdateRegion)
		admin.DELETE("/regions/:id", regionHandler.DeleteRegion)

		admin.POST("/subregions", regionHandler.CreateSubRegion)
		admin.PUT("/subregions/:id", regionHandler.UpdateSubRegion)
		admin.DELETE("/subregions/:id", regionHandler.DeleteSubRegion)

		admin.GET("/stats/dashboard", statsHandler.Dashboard)
		admin.GET("/stats/clicks", statsHandler.RecentClicks)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
