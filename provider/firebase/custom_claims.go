package firebase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const maxSubjectLength = 128

var (
	errMissingSubject  = errors.New("firebase: token has no subject")
	errSubjectTooLong  = errors.New("firebase: subject exceeds 128 characters")
	errMissingAuthTime = errors.New("firebase: token has no auth_time")
	errFutureAuthTime  = errors.New("firebase: auth_time is in the future")
)

// FirebaseInfo is the provider block of a Firebase ID token.
type FirebaseInfo struct {
	SignInProvider string              `json:"sign_in_provider"`
	Tenant         string              `json:"tenant,omitempty"`
	Identities     map[string][]string `json:"identities,omitempty"`
}

// FirebaseClaims holds the claims of a Firebase ID token.
type FirebaseClaims struct {
	Email         string       `json:"email"`
	EmailVerified bool         `json:"email_verified"`
	Name          string       `json:"name"`
	Picture       string       `json:"picture"`
	UserID        string       `json:"user_id"`
	AuthTime      int64        `json:"auth_time"`
	Firebase      FirebaseInfo `json:"firebase"`
	jwt.RegisteredClaims

	leeway time.Duration
	now    func() time.Time
}

// Validate satisfies jwt.ClaimsValidator. It runs after the registered claims
// checks.
func (c *FirebaseClaims) Validate() error {
	switch {
	case c.Subject == "":
		return errMissingSubject
	case len(c.Subject) > maxSubjectLength:
		return errSubjectTooLong
	case c.AuthTime <= 0:
		return errMissingAuthTime
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	if time.Unix(c.AuthTime, 0).After(now().Add(c.leeway)) {
		return errFutureAuthTime
	}
	return nil
}
