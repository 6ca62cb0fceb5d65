package jwt

import (
	"errors"
	"fmt"
	"slotbook/config"
	"slotbook/shared/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	oauthjwt "golang.org/x/oauth2/jwt"
)

const (
	// DefaultTokenURL is the Google OAuth token endpoint service accounts exchange assertions at.
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	assertionLifetime = time.Hour
)

var (
	ErrMissingCredentials = errors.New("service account credentials are not configured")
	ErrInvalidPrivateKey  = errors.New("invalid service account private key")
)

// Credentials describe a service account able to request access tokens with a JWT bearer grant.
type Credentials interface {
	Config() *oauthjwt.Config
	TokenURL() string
	Subject() string
}

type credentialsImpl struct {
	clientEmail string
	tokenURL    string
	scopes      []string
	privateKey  []byte
}

// NewCredentials validates the service-account key from config. Escaped "\n" sequences in the key
// are expanded so the PEM block can live in a single-line environment variable, and a base64
// encoded key is decoded first.
func NewCredentials(cfg *config.Config, scopes ...string) (Credentials, error) {
	google := cfg.External.Google
	if google.ClientEmail == "" || google.PrivateKey == "" {
		return nil, ErrMissingCredentials
	}

	pem := []byte(strings.ReplaceAll(base64.DecodePEM(google.PrivateKey), `\n`, "\n"))

	// Parsed up front so a broken key disables the calendar at startup instead of on first use.
	if _, err := jwt.ParseRSAPrivateKeyFromPEM(pem); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	tokenURL := google.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &credentialsImpl{
		clientEmail: google.ClientEmail,
		tokenURL:    tokenURL,
		scopes:      scopes,
		privateKey:  pem,
	}, nil
}

// Config returns the JWT bearer grant for this service account.
func (c *credentialsImpl) Config() *oauthjwt.Config {
	return &oauthjwt.Config{
		Email:      c.clientEmail,
		PrivateKey: c.privateKey,
		Scopes:     c.scopes,
		TokenURL:   c.tokenURL,
		Expires:    assertionLifetime,
	}
}

func (c *credentialsImpl) TokenURL() string {
	return c.tokenURL
}

func (c *credentialsImpl) Subject() string {
	return c.clientEmail
}
