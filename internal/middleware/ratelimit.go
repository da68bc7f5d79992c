package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-reservation/internal/config"
)

// tokenBucketScript refills and drains one bucket atomically so concurrent
// requests on the same key cannot over-consume. KEYS[1] is the bucket,
// ARGV is {now_ms, capacity, refill_tokens, interval_ms, ttl_seconds}.
// Returns {allowed, tokens_left, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local last = tonumber(redis.call('HGET', KEYS[1], 'last_ms'))
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

if tokens == nil or last == nil then
  tokens = capacity
  last = now
end

local ticks = math.floor(math.max(0, now - last) / interval)
if ticks > 0 then
  tokens = math.min(capacity, tokens + ticks * refill)
  last = last + ticks * interval
end

local allowed = 0
local wait = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.max(0, interval - (now - last))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_ms', last)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, wait}
`)

// NewTokenBucket returns a Redis-backed token-bucket limiter for the
// session-scoped routes. With rate limiting disabled or no Redis client
// it degrades to a pass-through, and so does any Redis failure at request
// time: the limiter protects the store, it must never take the API down.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := tokenBucketScript.Run(c.Request().Context(), rdb,
				[]string{rateKey(cfg, c)},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if res[0] != 1 {
				secs := int(math.Ceil(float64(res[2]) / 1000.0))
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// rateKey assembles the bucket key from the dimensions named in the key
// strategy ("ip", "session", "route", underscore-joined). An empty or
// unrecognized strategy falls back to all three dimensions.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	dims := map[string]string{
		"ip":      ip,
		"session": currentSessionID(c),
		"route":   c.Request().Method + " " + c.Path(),
	}

	parts := []string{cfg.Prefix}
	for _, d := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
		if v, ok := dims[d]; ok {
			parts = append(parts, d, v)
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "ip", dims["ip"], "session", dims["session"], "route", dims["route"])
	}
	return strings.Join(parts, ":")
}

func currentSessionID(c echo.Context) string {
	if s, ok := c.Get(ContextSessionIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
