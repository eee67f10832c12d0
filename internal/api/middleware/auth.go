// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note - Middleware Pattern (Gin):
// In Gin, middleware is any function with the signature `gin.HandlerFunc`, which
// is `func(*gin.Context)`. Middleware functions form a chain: each one runs,
// optionally calls c.Next() to pass control to the next handler, and can call
// c.Abort() to stop the chain.
//
// Middleware is applied using .Use() on a router or route group. Here it
// covers authentication, access logging and request metrics.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key under which Auth stores the caller's ID.
//
// Go Learning Note - Context Values:
// Gin's c.Set/c.Get stores request-scoped values in the *gin.Context, much
// like context.WithValue in the standard library. A named constant for the
// key avoids typos between the middleware and the handlers.
const UserIDKey = "user_id"

// Authenticator turns a bearer token into a user ID.
// *services.AuthService implements it.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// Auth requires "Authorization: Bearer <jwt>" and stores the user ID from
// the verified token in the context.
//
// Go Learning Note - c.Abort():
// c.Abort() prevents subsequent handlers in the chain from running. Without it,
// even after writing an error response, the next handler would still execute.
// Always pair error responses with c.Abort() in middleware.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		// strings.SplitN splits into at most 2 parts, handling tokens with spaces.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		userID, err := auth.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// AdminToken guards operational endpoints with a shared secret sent in the
// X-Admin-Token header. An empty token disables the routes entirely.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		got := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the user ID set by Auth.
//
// Go Learning Note - Type Assertion:
// c.Get() returns (interface{}, bool). The .(int64) is a type assertion; the
// single-value form panics if the value has another type. That is acceptable
// here because the function is only reachable behind Auth, which always sets
// an int64.
func GetUserID(c *gin.Context) int64 {
	userID, _ := c.Get(UserIDKey)
	return userID.(int64)
}
