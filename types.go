package identity

import (
	"context"
	"fmt"
)

// Logger is the logging contract used across the package.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// TokenVerifier verifies a production credential with the identity provider
// and returns the signed claims it asserts.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*IdentityClaims, error)
}

// TokenVerifierFunc adapts a function into a TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, rawToken string) (*IdentityClaims, error)

// Verify satisfies the TokenVerifier interface.
func (f TokenVerifierFunc) Verify(ctx context.Context, rawToken string) (*IdentityClaims, error) {
	if f == nil {
		return nil, ErrInvalidCredential
	}
	return f(ctx, rawToken)
}

// ProfileStore is the document persistence capability for profiles.
// Implementations must treat Create as create-if-absent and Update as a
// shallow per-field merge.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Set(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, id string, update ProfileUpdate) error
}

// AccountStore persists email/password accounts.
type AccountStore interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
