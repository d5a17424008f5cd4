package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"labelscan/internal/middleware"
)

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestLogger_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(zap.New(core)))
	r.GET("/test", func(c *gin.Context) {
		middleware.GetLogger(c).Info("handler ran")
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-7")
	r.ServeHTTP(w, req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "handler ran", entries[0].Message)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])

	ctx := entries[1].ContextMap()
	assert.Equal(t, "http request", entries[1].Message)
	assert.Equal(t, "GET", ctx["method"])
	assert.Equal(t, "/test", ctx["path"])
	assert.Equal(t, int64(http.StatusTeapot), ctx["status"])
	assert.Equal(t, "req-7", ctx["request_id"])
}

func TestGetLogger_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, middleware.GetLogger(c))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := gin.New()
	r.Use(middleware.Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("label exploded") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
