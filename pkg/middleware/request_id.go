package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// HeaderRequestID is the request id header honored and echoed by the server
const HeaderRequestID = "X-Request-ID"

// RequestID assigns each request an id and threads it into the request
// context for logging
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// TenantContext copies the authenticated tenant id into the request context
// for logging. Mount it after JWTMiddleware.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantID, ok := GetTenantID(c); ok {
			ctx := context.WithValue(c.Request.Context(), logger.TenantIDKey, tenantID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
