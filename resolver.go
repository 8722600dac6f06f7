package identity

import (
	"context"
	"strings"
)

const bearerPrefix = "Bearer "

// ParseAuthorizationHeader returns the credential carried by a Bearer header.
// The scheme is case sensitive and the credential may not contain whitespace.
func ParseAuthorizationHeader(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", ErrMalformedAuthorizationHeader
	}
	return raw, nil
}

// ResolveOptions controls call-site policy for a single resolution.
type ResolveOptions struct {
	// RequireVerifiedEmail rejects production credentials whose email is not
	// verified.
	RequireVerifiedEmail bool
	// VerifiedOnly downgrades self-describing tiers to the production tier so
	// only provider-verified credentials or the dev fixture are accepted.
	// Emulator tokens are still accepted in dev mode.
	VerifiedOnly bool
}

// CredentialResolver runs classify, extract and build in sequence.
type CredentialResolver struct {
	classifier *Classifier
	extractor  *ClaimExtractor
	logger     Logger
}

// ResolverOption configures a CredentialResolver.
type ResolverOption func(*CredentialResolver)

// WithResolverLogger sets the resolver logger.
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *CredentialResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCredentialResolver builds a resolver. A nil classifier only recognises
// production tokens.
func NewCredentialResolver(classifier *Classifier, extractor *ClaimExtractor, opts ...ResolverOption) *CredentialResolver {
	r := &CredentialResolver{
		classifier: classifier,
		extractor:  extractor,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// DevMode reports whether the test fixture tier is reachable.
func (r *CredentialResolver) DevMode() bool {
	return r.classifier != nil && r.classifier.DevMode
}

func (r *CredentialResolver) allowUnverified(tier CredentialTier) bool {
	return tier == TierEmulatorIssued && r.DevMode()
}

// Resolve turns raw into an IdentityContext.
func (r *CredentialResolver) Resolve(ctx context.Context, raw string, opts ResolveOptions) (IdentityContext, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return IdentityContext{}, ErrMalformedAuthorizationHeader
	}

	tier := r.classifier.Classify(raw)
	if opts.VerifiedOnly && tier.SelfDescribing() && !r.allowUnverified(tier) {
		tier = TierProductionIDToken
	}

	r.logger.Debug("resolving credential as %s", tier)

	if r.extractor == nil {
		return IdentityContext{}, ErrInvalidCredential
	}

	claims, err := r.extractor.Extract(ctx, tier, raw, ExtractOptions{
		RequireVerifiedEmail: opts.RequireVerifiedEmail,
	})
	if err != nil {
		return IdentityContext{}, err
	}

	ic, err := BuildIdentityContext(claims)
	if err != nil {
		return IdentityContext{}, err
	}
	ic.Tier = tier

	return ic, nil
}

// ResolveHeader parses an Authorization header value and resolves it.
func (r *CredentialResolver) ResolveHeader(ctx context.Context, header string, opts ResolveOptions) (IdentityContext, error) {
	raw, err := ParseAuthorizationHeader(header)
	if err != nil {
		return IdentityContext{}, err
	}
	return r.Resolve(ctx, raw, opts)
}
