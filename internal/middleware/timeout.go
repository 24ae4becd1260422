package middleware

import (
	"context" // Request deadline
	"time"    // Timeout duration

	"github.com/gin-gonic/gin" // Gin web framework
)

// Timeout bounds the request context; store calls made with it are cancelled at the deadline
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d) // Derive deadline from request context
		defer cancel()                                             // Release timer when handler returns
		c.Request = c.Request.WithContext(ctx)                     // Replace request context
		c.Next()                                                   // Process request
	}
}
