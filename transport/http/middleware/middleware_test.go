package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slotbook/config"
	otelMocks "slotbook/infras/otel/mocks"
	"slotbook/shared/cache/mocks"
	"slotbook/shared/constant"
	"slotbook/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limiterConfig(maxRequests int) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func serve(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/availability", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set(constant.RequestHeaderUserAgent, "test-agent")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestRateLimitDisabled(t *testing.T) {
	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)
	handler := mw.RateLimit()(okHandler())

	for range 5 {
		rec := serve(handler, "198.51.100.1:4000")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(constant.RequestHeaderRateLimit))
	}
}

func TestRateLimitWithRedis(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockRedisCache(ctrl)

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(2), cache)
	handler := mw.RateLimit()(okHandler())

	gomock.InOrder(
		cache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(1), nil),
		cache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(2), nil),
		cache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil),
	)

	rec := serve(handler, "198.51.100.1:4000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimit))
	assert.Equal(t, "1", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))

	rec = serve(handler, "198.51.100.1:4000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))

	rec = serve(handler, "198.51.100.1:4000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}

func TestRateLimitFallsBackWhenRedisFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("connection refused")).Times(3)

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(2), cache)
	handler := mw.RateLimit()(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, "198.51.100.1:4000").Code)
	assert.Equal(t, http.StatusOK, serve(handler, "198.51.100.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, "198.51.100.1:4000").Code)
}

func TestRateLimitInProcessPerClient(t *testing.T) {
	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(1), nil)
	handler := mw.RateLimit()(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, "198.51.100.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, "198.51.100.1:4000").Code)
	assert.Equal(t, http.StatusOK, serve(handler, "198.51.100.2:4000").Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded for takes the first hop",
			headers:    map[string]string{constant.RequestHeaderForwardedFor: "203.0.113.9, 10.0.0.1"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.9",
		},
		{
			name:       "real ip header",
			headers:    map[string]string{constant.RequestHeaderRealIP: "203.0.113.10"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.10",
		},
		{
			name:       "remote address without port",
			remoteAddr: "203.0.113.11:5555",
			expected:   "203.0.113.11",
		},
		{
			name:       "ipv6 remote address",
			remoteAddr: "[2001:db8::1]:443",
			expected:   "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

			var got any

			handler := mw.ClientIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.Context().Value(constant.ContextKeyClientIP)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)
	handler := mw.CORS()(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/book", nil)
	req.Header.Set("Origin", "https://salon.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestTracingKeepsStatus(t *testing.T) {
	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	handler := mw.Tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
