package identity

// DefaultDisplayName is used when a credential carries no name.
const DefaultDisplayName = "Usuário"

// IdentityClaims is the normalized set of identity attributes asserted by a
// credential once decoded or verified.
type IdentityClaims struct {
	SubjectID     string  `json:"uid"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	DisplayName   string  `json:"name"`
	AvatarURL     *string `json:"picture,omitempty"`

	// DisplayNameDefaulted is set when DisplayName was filled with a
	// placeholder instead of a value asserted by the credential.
	DisplayNameDefaulted bool `json:"-"`
}

// withDisplayNameDefault fills an empty display name with def.
func (c *IdentityClaims) withDisplayNameDefault(def string) *IdentityClaims {
	if c.DisplayName == "" {
		c.DisplayName = def
		c.DisplayNameDefaulted = true
	}
	return c
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
