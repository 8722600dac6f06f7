package identity

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-print"
)

// Fixed identity returned for TierTestFixture.
const (
	TestFixtureSubjectID   = "test-uid-123"
	TestFixtureEmail       = "teste@gmail.com"
	TestFixtureDisplayName = "Usuário Teste Google"
)

// Placeholders used when self-describing tokens omit display fields.
const (
	emulatorDefaultEmail    = "emulator@example.com"
	emulatorDefaultName     = "Emulator User"
	customTokenDefaultEmail = "unknown@example.com"
	customTokenDefaultName  = "User"
)

// ExtractOptions controls per call-site extraction policy.
type ExtractOptions struct {
	// RequireVerifiedEmail rejects production claims whose email is not
	// verified. The Google sign-in path sets it; plain route protection does not.
	RequireVerifiedEmail bool
}

// ClaimExtractor produces IdentityClaims for a classified credential.
type ClaimExtractor struct {
	verifier TokenVerifier
	profiles ProfileStore
	logger   Logger
}

// ExtractorOption configures a ClaimExtractor.
type ExtractorOption func(*ClaimExtractor)

// WithExtractorLogger sets the extractor logger.
func WithExtractorLogger(logger Logger) ExtractorOption {
	return func(e *ClaimExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewClaimExtractor wires the provider verifier and the profile store used to
// backfill dev custom tokens. A nil verifier rejects every production token.
func NewClaimExtractor(verifier TokenVerifier, profiles ProfileStore, opts ...ExtractorOption) *ClaimExtractor {
	e := &ClaimExtractor{
		verifier: verifier,
		profiles: profiles,
		logger:   defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Extract returns the claims for raw under the given tier.
func (e *ClaimExtractor) Extract(ctx context.Context, tier CredentialTier, raw string, opts ExtractOptions) (*IdentityClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		claims *IdentityClaims
		err    error
	)

	switch tier {
	case TierTestFixture:
		claims = testFixtureClaims()
	case TierEmulatorIssued:
		claims, err = e.emulatorClaims(raw)
	case TierDevCustomToken:
		claims, err = e.customTokenClaims(ctx, raw)
	default:
		claims, err = e.verifiedClaims(ctx, raw, opts)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted claims for tier %s: %s", tier, print.MaybePrettyJSON(map[string]any{
		"uid":            claims.SubjectID,
		"email_verified": claims.EmailVerified,
	}))

	return claims, nil
}

func testFixtureClaims() *IdentityClaims {
	return &IdentityClaims{
		SubjectID:     TestFixtureSubjectID,
		Email:         TestFixtureEmail,
		EmailVerified: true,
		DisplayName:   TestFixtureDisplayName,
	}
}

func (e *ClaimExtractor) emulatorClaims(raw string) (*IdentityClaims, error) {
	payload, err := decodePayload(raw)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	subject := claimString(payload, "uid", "user_id", "sub")
	if subject == "" {
		return nil, ErrInvalidCredential
	}

	email := claimString(payload, "email")
	if email == "" {
		email = emulatorDefaultEmail
	}

	claims := &IdentityClaims{
		SubjectID:     subject,
		Email:         email,
		EmailVerified: true,
		DisplayName:   claimString(payload, "name"),
		AvatarURL:     stringPtr(claimString(payload, "picture")),
	}
	return claims.withDisplayNameDefault(emulatorDefaultName), nil
}

func (e *ClaimExtractor) customTokenClaims(ctx context.Context, raw string) (*IdentityClaims, error) {
	payload, err := decodePayload(raw)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	// sub names the signing service account, never the user.
	subject := claimString(payload, "uid")
	if subject == "" {
		return nil, ErrInvalidCredential
	}

	claims := &IdentityClaims{
		SubjectID:     subject,
		Email:         customTokenDefaultEmail,
		EmailVerified: true,
	}

	if e.profiles == nil {
		return claims.withDisplayNameDefault(customTokenDefaultName), nil
	}

	profile, err := e.profiles.Get(ctx, subject)
	switch {
	case err == nil && profile != nil:
		if email := strings.TrimSpace(profile.Email); email != "" {
			claims.Email = email
		}
		claims.DisplayName = strings.TrimSpace(profile.Name)
		if profile.Image != nil {
			claims.AvatarURL = stringPtr(strings.TrimSpace(*profile.Image))
		}
	case err == nil, stderrors.Is(err, ErrProfileNotFound):
	default:
		e.logger.Error("custom token profile backfill failed for %s: %v", subject, err)
		return nil, storeUnavailable(err)
	}

	return claims.withDisplayNameDefault(customTokenDefaultName), nil
}

func (e *ClaimExtractor) verifiedClaims(ctx context.Context, raw string, opts ExtractOptions) (*IdentityClaims, error) {
	if e.verifier == nil {
		e.logger.Error("no token verifier configured, rejecting production credential")
		return nil, ErrInvalidCredential
	}

	verified, err := e.verifier.Verify(ctx, raw)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Info("token verification failed: %v", err)
		return nil, ErrInvalidCredential
	}
	if verified == nil || strings.TrimSpace(verified.SubjectID) == "" {
		return nil, ErrInvalidCredential
	}

	if opts.RequireVerifiedEmail && !verified.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	claims := *verified
	return claims.withDisplayNameDefault(DefaultDisplayName), nil
}
