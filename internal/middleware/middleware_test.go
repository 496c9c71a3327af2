package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.POST("/book", okHandler, NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, quietLogger()))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/book", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/v1/slots", okHandler, NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Second}, nil, quietLogger()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/slots", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/book", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/book")

	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /book", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:route:POST /book", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	mk := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/slots")
		return cacheKeyFrom(cfg, c)
	}
	assert.Equal(t, mk("/v1/slots?date=2025-01-10"), mk("/v1/slots?date=2025-01-10"))
	assert.NotEqual(t, mk("/v1/slots?date=2025-01-10"), mk("/v1/slots?date=2025-01-11"))
}

func TestAdminAuth(t *testing.T) {
	e := echo.New()
	e.POST("/v1/admin/sweep", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("admin").(string))
	}, AdminAuth("secret"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAdminToken("secret", "root", 5)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root", rec.Body.String())
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	l := quietLogger()
	var entries []*logrus.Entry
	l.AddHook(&captureHook{entries: &entries})

	e := echo.New()
	e.Use(RequestLogger(l))
	e.GET("/missing-handler", func(c echo.Context) error { return echo.ErrNotFound })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing-handler", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusNotFound, entries[0].Data["status"])
	assert.Equal(t, "/missing-handler", entries[0].Data["path"])
}

type captureHook struct{ entries *[]*logrus.Entry }

func (h *captureHook) Levels() []logrus.Level { return logrus.AllLevels }
func (h *captureHook) Fire(e *logrus.Entry) error {
	*h.entries = append(*h.entries, e)
	return nil
}
