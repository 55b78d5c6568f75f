package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/homescout/homescout/internal/errors"
	"github.com/homescout/homescout/internal/telemetry"
)

// ErrorHandler recovers panics and converts errors attached to the gin
// context into single-line plain-text diagnostics. The tool host consumes
// text, not structured error bodies.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				correlationID := telemetry.GetCorrelationID(ctx)

				telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
					"operation":   "error_handler_panic",
					"panic_value": fmt.Sprintf("%v", r),
					"stack_trace": string(debug.Stack()),
					"service":     "middleware",
				}).Error("Panic recovered in HTTP handler")

				appErr := errors.NewInternalError(fmt.Sprintf("panic in handler: %v", r), nil).
					WithCorrelationID(correlationID)
				writeDiagnostic(c, appErr)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			HandleError(c, c.Errors.Last().Err)
		}
	}
}

// HandleError maps an error to its diagnostic response and logs it.
func HandleError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	correlationID := telemetry.GetCorrelationID(ctx)

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError("An unexpected error occurred", err)
	}
	if appErr.CorrelationID == "" {
		appErr = appErr.WithCorrelationID(correlationID)
	}

	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"error_type": string(appErr.Type),
		"error_code": appErr.Code,
		"service":    "middleware",
	})
	switch appErr.Type {
	case errors.ErrorTypeNoMatch, errors.ErrorTypeInput, errors.ErrorTypeValidation:
		logger.Info(appErr.Message)
	default:
		logger.WithError(appErr).Error("Request failed")
	}

	writeDiagnostic(c, appErr)
}

func writeDiagnostic(c *gin.Context, appErr *errors.AppError) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.String(status, "%s\n", appErr.Message)
}
