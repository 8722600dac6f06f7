package firebase

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-identity"
)

const (
	// DefaultJWKSURL publishes the keys that sign Firebase ID tokens.
	DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	// IssuerPrefix is prepended to the project id to build the token issuer.
	IssuerPrefix = "https://securetoken.google.com/"
)

// Config holds Firebase settings for ID token verification.
type Config struct {
	// ProjectID is the Firebase project. It is the required audience.
	ProjectID string

	// Issuer overrides the default issuer (optional).
	// Default: "https://securetoken.google.com/{ProjectID}".
	Issuer string

	// JWKSURL overrides the key set location (optional).
	JWKSURL string

	// RefreshInterval is how often keys are refetched in the background.
	// Default: 1 hour.
	RefreshInterval time.Duration

	// RefreshRateLimit bounds refreshes triggered by unknown kids.
	// Default: 5 minutes.
	RefreshRateLimit time.Duration

	// RefreshTimeout bounds a single key set fetch.
	// Default: 10 seconds.
	RefreshTimeout time.Duration

	// Leeway tolerates clock skew on time based claims.
	Leeway time.Duration

	// KeyFunc replaces the JWKS lookup (optional).
	KeyFunc jwt.Keyfunc

	// Logger receives background refresh failures.
	Logger identity.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(projectID string) Config {
	return Config{
		ProjectID:        projectID,
		JWKSURL:          DefaultJWKSURL,
		RefreshInterval:  time.Hour,
		RefreshRateLimit: 5 * time.Minute,
		RefreshTimeout:   10 * time.Second,
	}
}

// FromIdentityConfig maps the service config to a verifier config.
func FromIdentityConfig(cfg identity.Config) Config {
	return DefaultConfig(cfg.ProjectID)
}

func (c Config) issuer() string {
	if iss := strings.TrimSpace(c.Issuer); iss != "" {
		return iss
	}
	return fmt.Sprintf("%s%s", IssuerPrefix, strings.TrimSpace(c.ProjectID))
}

func (c Config) jwksURL() string {
	if u := strings.TrimSpace(c.JWKSURL); u != "" {
		return u
	}
	return DefaultJWKSURL
}

func (c Config) withDefaults() Config {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = time.Hour
	}
	if c.RefreshRateLimit == 0 {
		c.RefreshRateLimit = 5 * time.Minute
	}
	if c.RefreshTimeout == 0 {
		c.RefreshTimeout = 10 * time.Second
	}
	return c
}
