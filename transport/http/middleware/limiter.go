package middleware

import (
	"net/http"
	"slotbook/config"
	"slotbook/shared"
	"slotbook/shared/constant"
	"slotbook/transport/http/response"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"

	defaultMaxRequests   = 60
	defaultWindowSeconds = 60
	maxLocalKeys         = 10000
)

// RateLimit allows MaxRequests per client within WindowSeconds. Redis keeps a fixed-window
// count shared by every instance; without Redis, or when Redis fails, a per-process token
// bucket applies the same budget.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	if !a.config.App.RateLimiter.Enable {
		return func(next http.Handler) http.Handler { return next }
	}

	maxReqs, windowSecs := limits(a.config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent(r))

			remaining, allowed := a.allow(r, key, maxReqs, windowSecs)

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(remaining))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			if !allowed {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) allow(r *http.Request, key string, maxReqs, windowSecs int) (remaining int, allowed bool) {
	if a.cache != nil {
		count, err := a.cache.Increment(r.Context(), key, windowSecs)
		if err == nil {
			return max(0, maxReqs-int(count)), int(count) <= maxReqs
		}

		log.Warn().Err(err).Msg("rate limit counter unavailable, limiting in process")
	}

	return a.local.allow(key)
}

func limits(cfg *config.Config) (maxReqs, windowSecs int) {
	maxReqs = cfg.App.RateLimiter.MaxRequests
	if maxReqs <= 0 {
		maxReqs = defaultMaxRequests
	}

	windowSecs = cfg.App.RateLimiter.WindowSeconds
	if windowSecs <= 0 {
		windowSecs = defaultWindowSeconds
	}

	return maxReqs, windowSecs
}

// localLimiter keeps one token bucket per client. The whole table is dropped once it holds
// maxLocalKeys clients.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func newLocalLimiter(cfg *config.Config) *localLimiter {
	maxReqs, windowSecs := limits(cfg)

	return &localLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(time.Duration(windowSecs) * time.Second / time.Duration(maxReqs)),
		burst:    maxReqs,
	}
}

func (l *localLimiter) allow(key string) (remaining int, allowed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLocalKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}

		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = limiter
	}

	allowed = limiter.Allow()

	return max(0, int(limiter.Tokens())), allowed
}
