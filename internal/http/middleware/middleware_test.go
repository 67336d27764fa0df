package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.Use(RateLimitMiddleware(RateLimitConfig{RPS: 1}))
	e.GET("/", okHandler)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(e, "/").Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	rds := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rds.Close()

	e := echo.New()
	e.Use(RateLimitMiddleware(RateLimitConfig{Redis: rds, RPS: 1}))
	e.GET("/", okHandler)

	assert.Equal(t, http.StatusOK, serve(e, "/").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/").Code)
}

func TestRequestIDIsULID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", okHandler)

	rec := serve(e, "/")
	id := rec.Header().Get(echo.HeaderXRequestID)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err, id)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(RequestID(), RequestLogger(zap.New(core)))
	e.GET("/", okHandler)

	serve(e, "/?q=1")
	serve(e, "/missing")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/?q=1", first["uri"])
	assert.EqualValues(t, http.StatusOK, first["status"])
	assert.NotEmpty(t, first["request_id"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}
