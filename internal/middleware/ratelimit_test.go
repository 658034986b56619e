package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinefind/internal/config"
)

func limiterUnderTest(t *testing.T, cfg config.RateLimitConfig) echo.HandlerFunc {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RateLimit(cfg, client)(ok)
}

func invoke(t *testing.T, h echo.HandlerFunc) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/reviews")
	require.NoError(t, h(c))
	return rec.Code
}

func TestRateLimitBlocksRequestsOverWindowMax(t *testing.T) {
	h := limiterUnderTest(t, config.RateLimitConfig{
		Enabled: true, Max: 2, Window: time.Minute, Prefix: "rl",
	})

	assert.Equal(t, http.StatusOK, invoke(t, h))
	assert.Equal(t, http.StatusOK, invoke(t, h))
	assert.Equal(t, http.StatusTooManyRequests, invoke(t, h))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// Disabled by config.
	h := RateLimit(config.RateLimitConfig{Enabled: false}, nil)(ok)
	assert.Equal(t, http.StatusOK, invoke(t, h))

	// Enabled but no Redis client: fail open.
	h = RateLimit(config.RateLimitConfig{Enabled: true, Max: 1, Window: time.Minute}, nil)(ok)
	assert.Equal(t, http.StatusOK, invoke(t, h))
	assert.Equal(t, http.StatusOK, invoke(t, h))
}
