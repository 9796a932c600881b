package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// RegisterRoutes registers the health check on the provided Echo
// instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterSearch registers the public trip search endpoints.  When a
// Redis client is supplied the search responses are cached briefly;
// without one the routes still work, just uncached.
func RegisterSearch(e *echo.Echo, h *handler.SearchHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewSearchCache(cacheCfg, rdb)
	e.GET("/v1/trains/search", h.SearchTrains, cache)
	e.GET("/v1/stations", h.Stations, cache)
}

// RegisterBookings registers the booking lifecycle endpoints.  All of
// them are public; passengers identify their booking by id or by
// reservation code.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler) {
	g := e.Group("/v1/bookings")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/pnr/:code", h.GetByCode)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Cancel)
}

// RegisterAdmin registers the schedule management endpoints under
// /v1/admin.  Every route in the group requires a valid bearer token
// signed with jwtSecret.
func RegisterAdmin(e *echo.Echo, h *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/schedules", h.Create)
	g.GET("/schedules", h.List)
}
