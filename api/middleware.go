package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"price-scout/utils"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID takes the request id from X-Request-ID or generates one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

// RequestLogger logs one line per request once the handler has finished.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		if query != "" {
			path += "?" + query
		}
		status := c.Writer.Status()
		duration := time.Since(start).Round(time.Microsecond)
		requestID := c.GetString(requestIDKey)

		if len(c.Errors) > 0 {
			logger.Error("[http] %s %s %d %v id=%s errors=%s", c.Request.Method, path, status, duration, requestID, c.Errors.String())
			return
		}
		if strings.HasPrefix(path, "/health") || path == "/metrics" {
			logger.Debug("[http] %s %s %d %v id=%s", c.Request.Method, path, status, duration, requestID)
			return
		}
		logger.Info("[http] %s %s %d %v id=%s", c.Request.Method, path, status, duration, requestID)
	}
}

// Recovery turns a handler panic into a 500 with the given JSON body.
func Recovery(logger *utils.Logger, body any) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[http] panic on %s %s id=%s: %v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()

		c.Next()
	}
}
