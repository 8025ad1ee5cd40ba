// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avikern/stand-planner/internal/config"
	"github.com/avikern/stand-planner/internal/handler"
	"github.com/avikern/stand-planner/internal/middleware"
)

// Handlers bundles the handler set the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Dataset    *handler.DatasetHandler
	Flights    *handler.FlightHandler
	Validation *handler.ValidationHandler
	Capacity   *handler.CapacityHandler
	Allocation *handler.AllocationHandler
}

// Register wires all routes.  /healthz and /v1/auth are public; every
// other endpoint requires a bearer token.  The engine endpoints get the
// Redis response cache (keyed on the request body) and the token-bucket
// rate limiter; the engines are pure so replaying identical inputs from
// cache is sound.  Allocation runs are side-effecting and are rate
// limited but never cached.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1/auth")
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/me", h.Auth.Me)

	// Reference data CRUD.
	auth.GET("/aircraft-types", h.Dataset.ListAircraftTypes)
	auth.PUT("/aircraft-types", h.Dataset.PutAircraftType)
	auth.DELETE("/aircraft-types/:id", h.Dataset.DeleteAircraftType)
	auth.GET("/stands", h.Dataset.ListStands)
	auth.PUT("/stands", h.Dataset.PutStand)
	auth.DELETE("/stands/:id", h.Dataset.DeleteStand)
	auth.GET("/adjacency-rules", h.Dataset.ListRules)
	auth.POST("/adjacency-rules", h.Dataset.CreateRule)
	auth.DELETE("/adjacency-rules/:id", h.Dataset.DeleteRule)
	auth.GET("/settings", h.Dataset.GetSettings)
	auth.PUT("/settings", h.Dataset.PutSettings)

	// Flight schedule.
	auth.GET("/flights", h.Flights.List)
	auth.POST("/flights/import", h.Flights.Import)

	// Engine endpoints.
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	auth.POST("/validate", h.Validation.Validate, rateLimit, cache)
	auth.POST("/capacity/calculate", h.Capacity.Calculate, rateLimit, cache)
	auth.POST("/allocations/run", h.Allocation.Run, rateLimit)
	auth.GET("/allocations/runs", h.Allocation.ListRuns)
	auth.GET("/allocations/runs/:id", h.Allocation.GetRun)
}
