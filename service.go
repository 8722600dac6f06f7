package identity

import (
	"context"
	stderrors "errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// AuthUser is the user summary returned by the sign-in flows.
type AuthUser struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName string  `json:"name"`
	Picture     *string `json:"picture,omitempty"`
}

// GoogleAuthResult is returned by AuthService.GoogleAuth.
type GoogleAuthResult struct {
	Message string   `json:"message"`
	User    AuthUser `json:"user"`
	Profile *Profile `json:"profile,omitempty"`
	Token   string   `json:"token"`
}

// CustomTokenResult is returned by signup and login.
type CustomTokenResult struct {
	Message     string   `json:"message"`
	User        AuthUser `json:"user"`
	CustomToken string   `json:"customToken"`
}

// EmailSignup is the signup payload.
type EmailSignup struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Phone    *string `json:"phone,omitempty"`
}

// Validate checks the signup payload.
func (s EmailSignup) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&s.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&s.Age, validation.Min(0)),
		validation.Field(&s.Phone, validation.By(phoneRule)),
	)
}

// EmailLogin is the login payload.
type EmailLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (l EmailLogin) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Email, validation.Required, is.Email),
		validation.Field(&l.Password, validation.Required),
	)
}

// AuthService implements the sign-in flows on top of the resolver, the
// reconciler and the account provider.
type AuthService struct {
	resolver   *CredentialResolver
	reconciler *ProfileReconciler
	accounts   AccountProvider
	minter     *CustomTokenMinter
	logger     Logger
}

// AuthServiceOption configures an AuthService.
type AuthServiceOption func(*AuthService)

// WithAccountProvider enables email signup and login.
func WithAccountProvider(accounts AccountProvider) AuthServiceOption {
	return func(s *AuthService) {
		s.accounts = accounts
	}
}

// WithCustomTokenMinter sets the minter used by signup and login.
func WithCustomTokenMinter(minter *CustomTokenMinter) AuthServiceOption {
	return func(s *AuthService) {
		s.minter = minter
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger Logger) AuthServiceOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuthService wires the service.
func NewAuthService(resolver *CredentialResolver, reconciler *ProfileReconciler, opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		resolver:   resolver,
		reconciler: reconciler,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GoogleAuth verifies a Google sign-in ID token, requiring a verified email,
// and reconciles the caller's profile. Self-describing dev tokens are not
// accepted here. Every credential failure is reported as ErrInvalidCredential.
func (s *AuthService) GoogleAuth(ctx context.Context, idToken string) (*GoogleAuthResult, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrInvalidCredential
	}

	ic, err := s.resolver.Resolve(ctx, idToken, ResolveOptions{
		RequireVerifiedEmail: true,
		VerifiedOnly:         true,
	})
	if err != nil {
		if IsUnauthenticated(err) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	profile, err := s.reconciler.Reconcile(ctx, ic, nil)
	if err != nil {
		s.logger.Error("google auth reconcile failed for %s: %v", ic.SubjectID, err)
		if stderrors.Is(err, ErrProfileStoreUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidCredential
	}

	message := "Google authentication successful"
	if ic.Tier == TierTestFixture {
		message = "Google authentication successful (test mode)"
	}

	return &GoogleAuthResult{
		Message: message,
		User: AuthUser{
			UID:         ic.SubjectID,
			Email:       ic.Email,
			DisplayName: ic.DisplayName,
			Picture:     ic.AvatarURL,
		},
		Profile: profile,
		Token:   idToken,
	}, nil
}

// EmailSignup creates an email account and mints a custom token for it. The
// profile is created later, once the client exchanges the token.
func (s *AuthService) EmailSignup(ctx context.Context, input EmailSignup) (*CustomTokenResult, error) {
	if err := input.Validate(); err != nil {
		return nil, ErrInvalidPayload.Clone().WithMetadata(validationMetadata(err))
	}
	if s.accounts == nil {
		return nil, ErrSignupFailed
	}

	account, err := s.accounts.CreateAccount(ctx, NewAccount{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.Name,
	})
	if err != nil {
		if stderrors.Is(err, ErrEmailAlreadyRegistered) {
			return nil, ErrEmailAlreadyRegistered
		}
		s.logger.Error("signup failed: %v", err)
		return nil, ErrSignupFailed
	}

	token, _, err := s.minter.Mint(account.UID)
	if err != nil {
		s.logger.Error("custom token mint failed for %s: %v", account.UID, err)
		return nil, ErrSignupFailed
	}

	return &CustomTokenResult{
		Message: "User created successfully",
		User: AuthUser{
			UID:         account.UID,
			Email:       account.Email,
			DisplayName: account.DisplayName,
		},
		CustomToken: token,
	}, nil
}

// EmailLogin checks the password and mints a custom token. Every failure is
// reported as ErrInvalidLogin.
func (s *AuthService) EmailLogin(ctx context.Context, input EmailLogin) (*CustomTokenResult, error) {
	if err := input.Validate(); err != nil {
		return nil, ErrInvalidLogin
	}
	if s.accounts == nil {
		return nil, ErrInvalidLogin
	}

	account, err := s.accounts.VerifyPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	token, _, err := s.minter.Mint(account.UID)
	if err != nil {
		s.logger.Error("custom token mint failed for %s: %v", account.UID, err)
		return nil, ErrInvalidLogin
	}

	return &CustomTokenResult{
		Message: "Login successful",
		User: AuthUser{
			UID:         account.UID,
			Email:       account.Email,
			DisplayName: account.DisplayName,
			Picture:     account.PhotoURL,
		},
		CustomToken: token,
	}, nil
}

func validationMetadata(err error) map[string]any {
	meta := map[string]any{}
	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for field, ferr := range verrs {
			meta[field] = ferr.Error()
		}
		return meta
	}
	meta["error"] = err.Error()
	return meta
}
