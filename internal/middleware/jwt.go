package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/taskvault/internal/utils" // session token parsing
)

// ActorIDKey is the context key under which BearerAuth stores the
// authenticated user's id.  Handlers read it back through ActorID.
const ActorIDKey = "user_id"

// BearerAuth returns an Echo middleware that validates a Bearer session
// token and injects the authenticated user id into the request context.
// The provided secret must match the one used when minting tokens.  A
// missing header, a malformed token, a bad signature and an expired
// token all produce the same 401 response; the server never tells a
// client which check failed.
func BearerAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            uid, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(ActorIDKey, uid)
            return next(c)
        }
    }
}

// ActorID extracts the authenticated user id stored by BearerAuth.  The
// boolean is false when the middleware did not run on this route.
func ActorID(c echo.Context) (uint64, bool) {
    uid, ok := c.Get(ActorIDKey).(uint64)
    return uid, ok
}
