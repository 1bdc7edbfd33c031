package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/moments/pkg/logger"
)

// Logger 访问日志
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("viewer", c.GetString(viewerKey)),
		}
		switch {
		case len(c.Errors) > 0:
			logger.Error(c.Errors.String(), fields...)
		case status >= 500:
			logger.Warn("request failed", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
