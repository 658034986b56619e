// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"dinefind/internal/config"
	"dinefind/internal/handler"
	"dinefind/internal/middleware"
)

// RegisterRoutes wires every endpoint of the service onto the provided
// Echo instance. All catalog routes live under /v1; the health check
// stays at the top level for load balancers and monitoring systems.
// The review submission route carries the Redis-backed rate limiter —
// it is the only write endpoint open to anonymous clients.
func RegisterRoutes(e *echo.Echo, rh *handler.RestaurantHandler, vh *handler.ReviewHandler, wh *handler.WatchHandler, rdb *redis.Client, rlCfg config.RateLimitConfig) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Catalog reads and the two non-aggregate writes.
	v1.GET("/restaurants", rh.List)
	v1.POST("/restaurants", rh.Create)
	v1.GET("/restaurants/watch", wh.WatchRestaurants)
	v1.GET("/restaurants/:id", rh.Get)
	v1.PATCH("/restaurants/:id/photo", rh.UpdatePhoto)
	v1.GET("/restaurants/:id/watch", wh.WatchRestaurant)

	// Ratings subcollection.
	v1.GET("/restaurants/:id/reviews", vh.ListByRestaurant)
	v1.POST("/restaurants/:id/reviews", vh.Submit, middleware.RateLimit(rlCfg, rdb))
}
