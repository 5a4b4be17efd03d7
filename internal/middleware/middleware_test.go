package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

func TestCorrelationID(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, GetCorrelationID(c), CorrelationIDFromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	t.Run("generates when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Len(t, w.Header().Get(constants.CorrelationIDHeader), 36)
	})

	t.Run("reuses caller id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(constants.CorrelationIDHeader, "abc-123")
		router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(constants.CorrelationIDHeader))
	})
}

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path, device string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if device != "" {
			req.Header.Set(constants.DeviceIDHeader, device)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/test", "device-a"))
	assert.Equal(t, http.StatusOK, send("/test", "device-a"))
	assert.Equal(t, http.StatusTooManyRequests, send("/test", "device-a"))

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, send("/test", "device-b"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send("/health", "device-a"))
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	defer rl.Stop()

	rl.getLimiter("ip:10.0.0.1")
	rl.getLimiter("ip:10.0.0.2")
	rl.sweep(time.Now().Add(rl.idle + time.Second))

	count := 0
	rl.limiters.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	assert.Zero(t, count)
}

func TestRequestLogger(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID(), RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	for path, want := range map[string]int{"/ok": http.StatusOK, "/boom": http.StatusInternalServerError} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code)
	}
}
