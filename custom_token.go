package identity

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomTokenAudience is the audience of tokens exchanged at the identity
// toolkit. The classifier recognises it as a dev custom token.
const CustomTokenAudience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

// DefaultCustomTokenTTL is the lifetime of minted custom tokens.
const DefaultCustomTokenTTL = time.Hour

// CustomTokenClaims is the payload of a minted custom token.
type CustomTokenClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// CustomTokenMinter issues custom tokens for email accounts.
type CustomTokenMinter struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// NewCustomTokenMinter builds a minter from config. It returns
// ErrCustomTokenDisabled when no signing key is configured.
func NewCustomTokenMinter(cfg Config) (*CustomTokenMinter, error) {
	key := strings.TrimSpace(cfg.CustomTokenSigningKey)
	if key == "" {
		return nil, ErrCustomTokenDisabled
	}

	ttl := cfg.CustomTokenTTL
	if ttl <= 0 {
		ttl = DefaultCustomTokenTTL
	}

	return &CustomTokenMinter{
		signingKey: []byte(key),
		issuer:     cfg.ServiceAccountEmail,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Mint signs a custom token for uid.
func (m *CustomTokenMinter) Mint(uid string) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, ErrCustomTokenDisabled
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", time.Time{}, ErrInvalidCredential
	}

	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := &CustomTokenClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   m.issuer,
			Audience:  jwt.ClaimStrings{CustomTokenAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
