package middleware

import (
	"time"

	"erp/internal/logger"
	"erp/internal/requestctx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or generates one.
func RequestID(c *gin.Context) {
	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	c.Request = c.Request.WithContext(requestctx.WithRequestID(c.Request.Context(), requestID))
	c.Header(HeaderRequestID, requestID)

	c.Next()
}

// AccessLog writes one structured line per request.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", requestctx.RequestID(c.Request.Context()),
		}
		if userID := requestctx.UserID(c.Request.Context()); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("request failed", append(fields, "errors", c.Errors.String())...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request handled", fields...)
		}
	}
}
