package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/homescout/homescout/internal/telemetry"
)

// LoggingConfig holds the configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths []string `json:"skip_paths"`
}

// DefaultLoggingConfig returns the default logging middleware configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SkipPaths: []string{
			"/health",
			"/metrics",
		},
	}
}

// Logging creates a middleware that assigns every request a correlation ID
// and logs request/response pairs with timing.
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		start := time.Now()

		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = telemetry.NewCorrelationID()
		}
		c.Header("X-Correlation-ID", correlationID)

		ctx := telemetry.WithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)

		logger := telemetry.LogFromContext(ctx)

		requestFields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"query":     c.Request.URL.RawQuery,
			"remote_ip": c.ClientIP(),
		}
		logger.WithFields(requestFields).Info("Incoming HTTP request")

		c.Next()

		duration := time.Since(start)
		responseFields := logrus.Fields{
			"status":      c.Writer.Status(),
			"duration_ms": float64(duration.Nanoseconds()) / 1000000,
			"size":        c.Writer.Size(),
		}
		for k, v := range requestFields {
			responseFields[k] = v
		}
		if len(c.Errors) > 0 {
			errs := make([]string, len(c.Errors))
			for i, err := range c.Errors {
				errs[i] = err.Error()
			}
			responseFields["errors"] = errs
		}

		logEntry := logger.WithFields(responseFields)
		switch {
		case c.Writer.Status() >= 500:
			logEntry.Error("HTTP request completed with server error")
		case c.Writer.Status() >= 400:
			logEntry.Warn("HTTP request completed with client error")
		case duration > 5*time.Second:
			logEntry.Warn("HTTP request completed (slow)")
		default:
			logEntry.Info("HTTP request completed")
		}
	}
}
