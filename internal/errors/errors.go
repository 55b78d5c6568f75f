package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNoMatch    ErrorType = "no_match"
	ErrorTypeExternal   ErrorType = "external"
	ErrorTypeGeocoding  ErrorType = "geocoding"
	ErrorTypePlaces     ErrorType = "places"
	ErrorTypeCache      ErrorType = "cache"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// Terminal pipeline state codes. These complete the request successfully from
// the transport's perspective: there was simply nothing left to rank.
const (
	CodeNoListingsMatch   = "NO_LISTINGS_MATCH"
	CodeNoPOIsFound       = "NO_POIS_FOUND"
	CodeNoGeocodedResults = "NO_GEOCODED_RESULTS"
)

// AppError represents a structured application error
type AppError struct {
	Type          ErrorType              `json:"type"`
	Code          string                 `json:"code"`
	Message       string                 `json:"message"`
	Details       string                 `json:"details,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Cause         error                  `json:"-"` // Original error, not serialized
	HTTPStatus    int                    `json:"-"` // HTTP status code for API responses
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ToJSON converts the error to JSON format
func (e *AppError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: getDefaultHTTPStatus(errorType),
	}
}

// NewAppErrorWithCause creates a new application error with an underlying cause
func NewAppErrorWithCause(errorType ErrorType, code, message string, cause error) *AppError {
	err := NewAppError(errorType, code, message)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// WithCorrelationID adds a correlation ID to the error
func (e *AppError) WithCorrelationID(correlationID string) *AppError {
	e.CorrelationID = correlationID
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithHTTPStatus sets a custom HTTP status code
func (e *AppError) WithHTTPStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// getDefaultHTTPStatus returns the default HTTP status for an error type
func getDefaultHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeInput, ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNoMatch:
		// No-match states respond 200 with a one-line diagnostic body.
		return http.StatusOK
	case ErrorTypeTimeout:
		return http.StatusRequestTimeout
	case ErrorTypeExternal, ErrorTypeGeocoding, ErrorTypePlaces:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// NewInputError creates an input error for a rejected upload or parameter
func NewInputError(message string) *AppError {
	return NewAppError(ErrorTypeInput, "INPUT_ERROR", message)
}

// NewValidationError creates a validation error
func NewValidationError(field, message string) *AppError {
	return NewAppError(ErrorTypeValidation, "VALIDATION_ERROR", message).
		WithMetadata("field", field)
}

// NewNoMatchError creates a terminal no-match state with a distinct code
func NewNoMatchError(code, message string) *AppError {
	return NewAppError(ErrorTypeNoMatch, code, message)
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeInternal, "INTERNAL_ERROR", message, cause)
}

// NewCacheError creates a cache error
func NewCacheError(operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeCache, "CACHE_ERROR",
		fmt.Sprintf("Cache operation failed: %s", operation), cause).
		WithMetadata("operation", operation)
}

// NewPlacesError creates a POI provider error
func NewPlacesError(operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypePlaces, "PLACES_ERROR",
		fmt.Sprintf("Places provider operation failed: %s", operation), cause).
		WithMetadata("operation", operation)
}

// NewGeocodingError creates a geocoding provider error
func NewGeocodingError(operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeGeocoding, "GEOCODING_ERROR",
		fmt.Sprintf("Geocoding operation failed: %s", operation), cause).
		WithMetadata("operation", operation)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string, timeout time.Duration) *AppError {
	return NewAppError(ErrorTypeTimeout, "TIMEOUT",
		fmt.Sprintf("Operation timed out: %s", operation)).
		WithMetadata("operation", operation).
		WithMetadata("timeout", timeout.String())
}

// NewExternalError creates an external service error
func NewExternalError(service, operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeExternal, "EXTERNAL_ERROR",
		fmt.Sprintf("External service error: %s", service), cause).
		WithMetadata("service", service).
		WithMetadata("operation", operation)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// IsNoMatch reports whether an error is a terminal no-match state
func IsNoMatch(err error) bool {
	return IsErrorType(err, ErrorTypeNoMatch)
}

// GetErrorType returns the error type if it's an AppError
func GetErrorType(err error) (ErrorType, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type, true
	}
	return "", false
}

// GetCorrelationID extracts correlation ID from an error
func GetCorrelationID(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.CorrelationID
	}
	return ""
}
