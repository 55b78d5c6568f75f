package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/homescout/homescout/internal/errors"
)

func newRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares...)
	return router
}

func TestLogging_AssignsCorrelationID(t *testing.T) {
	router := newRouter(Logging(nil))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestLogging_EchoesProvidedCorrelationID(t *testing.T) {
	router := newRouter(Logging(nil))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Correlation-ID"))
}

func TestLogging_SkipsConfiguredPaths(t *testing.T) {
	router := newRouter(Logging(&LoggingConfig{SkipPaths: []string{"/health"}}))
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Correlation-ID"))
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	router := newRouter(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		panic("something broke")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "panic in handler")
}

func TestErrorHandler_ConvertsAttachedErrors(t *testing.T) {
	router := newRouter(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		c.Error(apperrors.NewInputError("bad upload"))
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad upload\n", w.Body.String())
}

func TestHandleError_NoMatchRespondsOK(t *testing.T) {
	router := newRouter()
	router.GET("/rank", func(c *gin.Context) {
		HandleError(c, apperrors.NewNoMatchError(
			apperrors.CodeNoPOIsFound, "no points of interest found for the requested location and type"))
	})

	req := httptest.NewRequest(http.MethodGet, "/rank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no points of interest found for the requested location and type\n", w.Body.String())
}

func TestHandleError_PlainErrorBecomesInternal(t *testing.T) {
	router := newRouter()
	router.GET("/rank", func(c *gin.Context) {
		HandleError(c, errors.New("database exploded"))
	})

	req := httptest.NewRequest(http.MethodGet, "/rank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal details stay out of the response body.
	assert.NotContains(t, w.Body.String(), "database exploded")
	assert.Contains(t, w.Body.String(), "unexpected error")
}
