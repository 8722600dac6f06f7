package identity

import (
	"context"
	"strings"
)

// IdentityContext is the per request view of the caller. It is never persisted.
type IdentityContext struct {
	SubjectID     string         `json:"uid"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"email_verified"`
	DisplayName   string         `json:"name"`
	AvatarURL     *string        `json:"picture,omitempty"`
	Tier          CredentialTier `json:"-"`

	// DisplayNameDefaulted marks a placeholder display name. Reconciliation
	// never copies a placeholder over a stored name.
	DisplayNameDefaulted bool `json:"-"`
}

// Owns reports whether the caller is the owner of the record with id.
func (ic IdentityContext) Owns(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && ic.SubjectID == id
}

// BuildIdentityContext normalizes claims into an IdentityContext. It performs
// no I/O.
func BuildIdentityContext(claims *IdentityClaims) (IdentityContext, error) {
	if claims == nil {
		return IdentityContext{}, ErrInvalidCredential
	}

	ic := IdentityContext{
		SubjectID:            strings.TrimSpace(claims.SubjectID),
		Email:                strings.TrimSpace(claims.Email),
		EmailVerified:        claims.EmailVerified,
		DisplayName:          strings.TrimSpace(claims.DisplayName),
		DisplayNameDefaulted: claims.DisplayNameDefaulted,
	}
	if ic.SubjectID == "" {
		return IdentityContext{}, ErrInvalidCredential
	}

	if claims.AvatarURL != nil {
		ic.AvatarURL = stringPtr(strings.TrimSpace(*claims.AvatarURL))
	}

	if ic.DisplayName == "" {
		ic.DisplayName = DefaultDisplayName
		ic.DisplayNameDefaulted = true
	}

	return ic, nil
}

type identityContextKey struct{}

// WithIdentity stores ic in ctx.
func WithIdentity(ctx context.Context, ic IdentityContext) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ic)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (IdentityContext, bool) {
	if ctx == nil {
		return IdentityContext{}, false
	}
	ic, ok := ctx.Value(identityContextKey{}).(IdentityContext)
	return ic, ok
}
