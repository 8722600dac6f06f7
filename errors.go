package identity

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeMalformedHeader       = "identity_malformed_authorization_header"
	TextCodeInvalidCredential     = "identity_invalid_credential"
	TextCodeEmailNotVerified      = "identity_email_not_verified"
	TextCodeStoreUnavailable      = "identity_profile_store_unavailable"
	TextCodeProfileNotFound       = "identity_profile_not_found"
	TextCodeProfileExists         = "identity_profile_exists"
	TextCodeInvalidProfile        = "identity_invalid_profile"
	TextCodeEmailRegistered       = "identity_email_already_registered"
	TextCodeInvalidLogin          = "identity_invalid_login"
	TextCodeAccountNotFound       = "identity_account_not_found"
	TextCodeSignupFailed          = "identity_signup_failed"
	TextCodeInvalidPayload        = "identity_invalid_payload"
	TextCodeCustomTokenNotEnabled = "identity_custom_token_disabled"
	TextCodeNotOwner              = "identity_not_owner"
)

// ErrMalformedAuthorizationHeader is returned when the Authorization header is
// missing or not Bearer shaped. No classification runs after it.
var ErrMalformedAuthorizationHeader = goerrors.New("missing or invalid authorization header", goerrors.CategoryAuth).
	WithTextCode(TextCodeMalformedHeader).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredential is returned when decoding or verification fails for the
// tier a credential was assigned to. The message never names the tier.
var ErrInvalidCredential = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailNotVerified is returned when a verified email is required and the
// provider claims say otherwise. It is surfaced as a plain 401.
var ErrEmailNotVerified = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(goerrors.CodeUnauthorized)

// ErrProfileStoreUnavailable wraps any I/O failure talking to the profile store.
var ErrProfileStoreUnavailable = goerrors.New("profile store unavailable", goerrors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrProfileNotFound is returned by stores when no profile exists for an id.
var ErrProfileNotFound = goerrors.New("profile not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeProfileNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrProfileExists is returned by ProfileStore.Create when the id is taken.
var ErrProfileExists = goerrors.New("profile already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeProfileExists).
	WithCode(goerrors.CodeConflict)

// ErrInvalidProfile is returned when profile fields fail validation.
var ErrInvalidProfile = goerrors.New("invalid profile fields", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidProfile).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailAlreadyRegistered is returned by signup for a taken email.
var ErrEmailAlreadyRegistered = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(goerrors.CodeConflict)

// ErrInvalidLogin is returned for any email login failure.
var ErrInvalidLogin = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidLogin).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotFound is returned by account stores for unknown emails.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrSignupFailed is returned when an account could not be created.
var ErrSignupFailed = goerrors.New("failed to create user", goerrors.CategoryAuth).
	WithTextCode(TextCodeSignupFailed).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidPayload is returned when a request payload fails validation.
var ErrInvalidPayload = goerrors.New("validation failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(goerrors.CodeBadRequest)

// ErrCustomTokenDisabled is returned when no custom token signing key is set.
var ErrCustomTokenDisabled = goerrors.New("custom token minting is not configured", goerrors.CategoryInternal).
	WithTextCode(TextCodeCustomTokenNotEnabled).
	WithCode(goerrors.CodeInternal)

// ErrNotOwner is returned when the caller acts on a record it does not own.
var ErrNotOwner = goerrors.New("access denied", goerrors.CategoryAuthz).
	WithTextCode(TextCodeNotOwner).
	WithCode(goerrors.CodeForbidden)

// IsUnauthenticated reports whether err should be surfaced as a 401.
func IsUnauthenticated(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuth
}

func storeUnavailable(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrProfileStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProfileStoreUnavailable, err)
}

func invalidProfile(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
}

// StatusCode maps err to an HTTP status. Errors without a code are 500.
func StatusCode(err error) int {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code > 0 {
		return richErr.Code
	}
	return goerrors.CodeInternal
}

// PublicMessage returns the message safe to send to a client for err.
// Internal failures never expose their cause.
func PublicMessage(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category == goerrors.CategoryInternal {
		return "internal server error"
	}
	if richErr.Category == goerrors.CategoryAuth && richErr.TextCode != TextCodeInvalidLogin && richErr.TextCode != TextCodeSignupFailed {
		return ErrInvalidCredential.Message
	}
	return richErr.Message
}

// TextCode returns the text code of err, or empty.
func TextCode(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.TextCode == TextCodeEmailNotVerified {
			return TextCodeInvalidCredential
		}
		return richErr.TextCode
	}
	return ""
}
