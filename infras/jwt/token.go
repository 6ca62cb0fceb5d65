package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slotbook/infras/otel"
	"slotbook/shared"
	"slotbook/shared/cache"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyToken = "google-token"
	expirySkew    = 60 * time.Second
)

var ErrTokenExchange = errors.New("token exchange failed")

// Token is an access token with its absolute expiry.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (t Token) valid(now time.Time) bool {
	return t.AccessToken != "" && now.Add(expirySkew).Before(t.ExpiresAt)
}

// TokenSource hands out bearer tokens, refreshing them shortly before they expire.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type tokenCache struct {
	credentials Credentials
	client      *http.Client
	cache       cache.RedisCache
	otel        otel.Otel

	mu      sync.RWMutex
	current Token
	group   singleflight.Group
}

// NewTokenSource exchanges service-account assertions for access tokens. The optional shared
// cache lets several instances reuse one token.
func NewTokenSource(credentials Credentials, client *http.Client, sharedCache cache.RedisCache, ot otel.Otel) TokenSource {
	if client == nil {
		client = &http.Client{Timeout: constant.DefaultExternalTimeoutSeconds * time.Second}
	}

	return &tokenCache{
		credentials: credentials,
		client:      client,
		cache:       sharedCache,
		otel:        ot,
	}
}

func (c *tokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()

	if current.valid(timezone.Now()) {
		return current.AccessToken, nil
	}

	result, err, _ := c.group.Do(cacheKeyToken, func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	token, _ := result.(Token)

	return token.AccessToken, nil
}

func (c *tokenCache) refresh(ctx context.Context) (token Token, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".TokenRefresh")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()
	key := shared.BuildCacheKey(cacheKeyToken, c.credentials.Subject())

	if c.cache != nil {
		var cached Token
		if err := c.cache.Get(ctx, key, &cached); err == nil && cached.valid(now) {
			c.store(cached)

			return cached, nil
		}
	}

	token, err = c.exchange(ctx)
	if err != nil {
		return Token{}, err
	}

	c.store(token)

	if c.cache != nil {
		ttl := int(token.ExpiresAt.Sub(now).Seconds() - expirySkew.Seconds())
		if ttl > 0 {
			if err := c.cache.Save(ctx, key, token, ttl); err != nil {
				log.Warn().Err(err).Msg("failed to share access token")
			}
		}
	}

	return token, nil
}

// exchange runs one JWT bearer grant through x/oauth2. Reuse is handled by tokenCache, so the
// oauth2 token source is built per call and bound to the caller's context.
func (c *tokenCache) exchange(ctx context.Context) (Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	token, err := c.credentials.Config().TokenSource(ctx).Token()
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	log.Debug().Time("expiresAt", token.Expiry).Msg("obtained access token")

	return Token{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry,
	}, nil
}

func (c *tokenCache) store(token Token) {
	c.mu.Lock()
	c.current = token
	c.mu.Unlock()
}

// Transport adds a bearer token from Source to every outgoing request.
type Transport struct {
	Source TokenSource
	Base   http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	clone.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)

	return base.RoundTrip(clone) //nolint:wrapcheck
}
