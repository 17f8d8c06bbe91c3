package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/taskvault/internal/config"
	"github.com/iliyamo/taskvault/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/taskvault/internal/middleware" // import middleware for bearer auth and rate limiting
)

// Handlers groups everything the router needs to wire the API surface.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	User    *handler.UserHandler
	Todo    *handler.TodoHandler
}

// Register wires the full API.  Credential endpoints live under
// /api/auth and are throttled by the Redis token bucket; everything else
// under /api requires a valid bearer session token.  A health check is
// exposed unauthenticated for load balancers.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated credential endpoints.  These are the brute-force
	// surface (passwords, passcodes), so the rate limiter wraps the group.
	creds := e.Group("/api/auth", middleware.RateLimit(rlCfg, rdb))
	creds.POST("/signup", h.Auth.Signup)
	creds.POST("/login", h.Auth.Login)
	creds.POST("/google", h.Auth.Google)
	creds.POST("/signup-otp", h.Auth.SignupOTP)
	creds.POST("/verify-otp", h.Auth.VerifyOTP)

	// Everything below requires a valid session token; BearerAuth places
	// the authenticated user id in the request context.
	authed := e.Group("/api", middleware.BearerAuth(jwtSecret))

	authed.GET("/auth/profile", h.Profile.Get)
	authed.POST("/auth/profile", h.Profile.Upsert)
	authed.GET("/auth/users", h.Profile.ListUsers)

	authed.DELETE("/auth/user/data/:id", h.User.Delete)
	authed.GET("/auth/user/profile", h.User.Profile)
	authed.GET("/auth/user/profile/:id", h.User.ProfileByID)

	authed.POST("/todos", h.Todo.Create)
	authed.GET("/todos", h.Todo.List)
	authed.PUT("/todos/:id", h.Todo.UpdateStatus)
	authed.DELETE("/todos/:id", h.Todo.Delete)
}
