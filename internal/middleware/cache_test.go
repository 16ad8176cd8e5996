package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/config"
)

func ctxFor(target string) echo.Context {
    req := httptest.NewRequest(http.MethodGet, target, nil)
    return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestCacheKeyStableAndQuerySensitive(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

    a := cacheKeyFrom(cfg, ctxFor("/v1/hotels?city=Moscow"))
    b := cacheKeyFrom(cfg, ctxFor("/v1/hotels?city=Moscow"))
    other := cacheKeyFrom(cfg, ctxFor("/v1/hotels?city=Kazan"))

    assert.Equal(t, a, b)
    assert.NotEqual(t, a, other)

    // The route-only strategy ignores the query entirely.
    cfg.KeyStrategy = "route"
    assert.Equal(t,
        cacheKeyFrom(cfg, ctxFor("/v1/hotels?city=Moscow")),
        cacheKeyFrom(cfg, ctxFor("/v1/hotels?city=Kazan")))
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    body := []byte(`{"items":[]}`)

    bs, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, body, gotBody)

    // Truncated payloads are rejected, not misread.
    _, _, _, ok = decodePayload(bs[:4])
    assert.False(t, ok)
}

func TestBuildRateKeyStrategies(t *testing.T) {
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
    c := ctxFor("/v1/bookings")
    c.SetPath("/v1/bookings")

    key := buildRateKey(cfg, c)
    assert.Contains(t, key, "rl:")
    assert.Contains(t, key, "GET /v1/bookings")

    cfg.KeyStrategy = "route"
    assert.Equal(t, "rl:route:GET /v1/bookings", buildRateKey(cfg, c))
}
