package firebase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-identity"
)

// TokenVerifier validates Firebase ID tokens using the securetoken JWKS.
type TokenVerifier struct {
	config  Config
	keyFunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
	parser  *jwt.Parser
}

// NewTokenVerifier creates a verifier. Unless cfg.KeyFunc is set the key set
// is fetched once here and refreshed in the background until ctx is done or
// Close is called.
func NewTokenVerifier(ctx context.Context, cfg Config) (*TokenVerifier, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("firebase: project id is required")
	}
	cfg = cfg.withDefaults()

	v := &TokenVerifier{
		config: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(cfg.issuer()),
			jwt.WithAudience(strings.TrimSpace(cfg.ProjectID)),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(cfg.Leeway),
		),
	}

	if cfg.KeyFunc != nil {
		v.keyFunc = cfg.KeyFunc
		return v, nil
	}

	jwks, err := keyfunc.Get(cfg.jwksURL(), keyfunc.Options{
		Ctx: ctx,
		RefreshErrorHandler: func(err error) {
			if cfg.Logger != nil {
				cfg.Logger.Error("firebase: background JWKS refresh failed: %v", err)
			}
		},
		RefreshInterval:   cfg.RefreshInterval,
		RefreshRateLimit:  cfg.RefreshRateLimit,
		RefreshTimeout:    cfg.RefreshTimeout,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to load JWKS: %w", err)
	}

	v.jwks = jwks
	v.keyFunc = jwks.Keyfunc
	return v, nil
}

// Verify implements identity.TokenVerifier.
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (*identity.IdentityClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &FirebaseClaims{leeway: v.config.Leeway}
	token, err := v.parser.ParseWithClaims(rawToken, claims, v.keyFunc)
	if err != nil {
		return nil, normalizeVerificationError(err)
	}
	if !token.Valid {
		return nil, normalizeVerificationError(jwt.ErrTokenSignatureInvalid)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mapClaims(claims), nil
}

// Close stops the background key refresh.
func (v *TokenVerifier) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func mapClaims(c *FirebaseClaims) *identity.IdentityClaims {
	out := &identity.IdentityClaims{
		SubjectID:     c.Subject,
		Email:         strings.TrimSpace(c.Email),
		EmailVerified: c.EmailVerified,
		DisplayName:   strings.TrimSpace(c.Name),
	}
	if pic := strings.TrimSpace(c.Picture); pic != "" {
		out.AvatarURL = &pic
	}
	return out
}

func normalizeVerificationError(err error) error {
	if err == nil {
		return nil
	}

	reason := "invalid"
	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		reason = "expired"
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		reason = "malformed"
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid), stderrors.Is(err, jwt.ErrTokenUnverifiable):
		reason = "signature"
	case stderrors.Is(err, jwt.ErrTokenInvalidIssuer):
		reason = "issuer"
	case stderrors.Is(err, jwt.ErrTokenInvalidAudience):
		reason = "audience"
	}

	clone := identity.ErrInvalidCredential.Clone()
	if clone == nil {
		return err
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "firebase",
		"reason":   reason,
	})
}
