package identity

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTestSentinel is the credential accepted as TierTestFixture.
	DefaultTestSentinel = "test-token"
	// DefaultEmulatorIssuerMarker identifies tokens minted by the auth emulator.
	DefaultEmulatorIssuerMarker = "firebase-auth-emulator"
	// DefaultCustomTokenAudienceMarker identifies custom tokens addressed to
	// the identity toolkit token exchange.
	DefaultCustomTokenAudienceMarker = "identitytoolkit"
)

// Classifier assigns credential tiers. The zero value only recognises the
// production tier; use NewClassifier or set the markers explicitly.
type Classifier struct {
	DevMode                   bool
	Sentinel                  string
	EmulatorIssuerMarker      string
	CustomTokenAudienceMarker string
}

// NewClassifier builds a Classifier from config, filling empty markers with
// their defaults.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{
		DevMode:                   cfg.DevMode,
		Sentinel:                  cfg.TestSentinel,
		EmulatorIssuerMarker:      cfg.EmulatorIssuerMarker,
		CustomTokenAudienceMarker: cfg.CustomTokenAudienceMarker,
	}
	if c.Sentinel == "" {
		c.Sentinel = DefaultTestSentinel
	}
	if c.EmulatorIssuerMarker == "" {
		c.EmulatorIssuerMarker = DefaultEmulatorIssuerMarker
	}
	if c.CustomTokenAudienceMarker == "" {
		c.CustomTokenAudienceMarker = DefaultCustomTokenAudienceMarker
	}
	return c
}

// Classify assigns a tier to raw using the default markers.
func Classify(raw string, devMode bool) CredentialTier {
	return (&Classifier{
		DevMode:                   devMode,
		Sentinel:                  DefaultTestSentinel,
		EmulatorIssuerMarker:      DefaultEmulatorIssuerMarker,
		CustomTokenAudienceMarker: DefaultCustomTokenAudienceMarker,
	}).Classify(raw)
}

// Classify inspects raw without trusting it. It never fails: anything that
// cannot be decoded, or decodes to an unrecognised payload, is a production
// token. The issuer check runs before the audience check.
func (c *Classifier) Classify(raw string) CredentialTier {
	if c == nil {
		return TierProductionIDToken
	}

	if c.DevMode && c.Sentinel != "" && raw == c.Sentinel {
		return TierTestFixture
	}

	payload, err := decodePayload(raw)
	if err != nil {
		return TierProductionIDToken
	}

	if c.EmulatorIssuerMarker != "" {
		if iss, err := payload.GetIssuer(); err == nil && strings.Contains(iss, c.EmulatorIssuerMarker) {
			return TierEmulatorIssued
		}
	}

	if c.CustomTokenAudienceMarker != "" {
		if aud, err := payload.GetAudience(); err == nil {
			for _, a := range aud {
				if strings.Contains(a, c.CustomTokenAudienceMarker) {
					return TierDevCustomToken
				}
			}
		}
	}

	return TierProductionIDToken
}

// decodePayload base64url decodes the middle segment of a compact JWT into a
// claims map. The signature is not checked.
func decodePayload(raw string) (jwt.MapClaims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, jwt.ErrTokenMalformed
	}

	data, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, err
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

// claimString returns the first non empty claim among keys, coercing numeric
// values to strings.
func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}
