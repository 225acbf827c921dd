// Package middleware provides HTTP middleware for the naming service.
package middleware

import (
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength is the maximum length kept from a client supplied request id
	MaxRequestIDLength = 128
)

// RequestID adds a request id to each request. A client supplied X-Request-ID
// is reused (truncated to MaxRequestIDLength), otherwise a new UUID is issued.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(logger.RequestIDKey)
}
