package identity

// CredentialTier is the trust class assigned to a raw credential before any of
// its claims are trusted. Values are ordered from least to most trusted
// verification path; the zero value is the production tier so an unset tier
// always fails closed.
type CredentialTier int

const (
	// TierProductionIDToken must be verified by the identity provider.
	TierProductionIDToken CredentialTier = iota
	// TierDevCustomToken is an unsigned token minted for the identity toolkit.
	// It only carries a subject id.
	TierDevCustomToken
	// TierEmulatorIssued is an unsigned token issued by the local emulator.
	TierEmulatorIssued
	// TierTestFixture is the fixed sentinel accepted in development mode.
	TierTestFixture
)

func (t CredentialTier) String() string {
	switch t {
	case TierTestFixture:
		return "test_fixture"
	case TierEmulatorIssued:
		return "emulator_issued"
	case TierDevCustomToken:
		return "dev_custom_token"
	default:
		return "production_id_token"
	}
}

// RequiresVerification reports whether claims for this tier must come from the
// identity provider's signature verification.
func (t CredentialTier) RequiresVerification() bool {
	switch t {
	case TierTestFixture, TierEmulatorIssued, TierDevCustomToken:
		return false
	default:
		return true
	}
}

// SelfDescribing reports whether claims are read straight from the token
// payload without any signature check.
func (t CredentialTier) SelfDescribing() bool {
	return t == TierEmulatorIssued || t == TierDevCustomToken
}
