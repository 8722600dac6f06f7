package identity

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Account is an email/password credential record. Profiles are stored apart.
type Account struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	PhotoURL      *string   `json:"photo_url,omitempty"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAccount holds the values needed to register an account.
type NewAccount struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    *string
}

// AccountProvider creates and authenticates email accounts.
type AccountProvider interface {
	CreateAccount(ctx context.Context, input NewAccount) (*Account, error)
	VerifyPassword(ctx context.Context, email, password string) (*Account, error)
}

// LocalAccountProvider implements AccountProvider on an AccountStore.
type LocalAccountProvider struct {
	store  AccountStore
	hasher PasswordHasher
	logger Logger
}

// NewLocalAccountProvider builds a provider hashing passwords at cost.
func NewLocalAccountProvider(store AccountStore, cost int, logger Logger) *LocalAccountProvider {
	if logger == nil {
		logger = defLogger{}
	}
	return &LocalAccountProvider{
		store:  store,
		hasher: NewPasswordHasher(cost),
		logger: logger,
	}
}

// AccountUID derives the stable uid for an email address.
func AccountUID(email string) (string, error) {
	id, err := hashid.NewUUID(normalizeEmail(email))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateAccount stores a new account. A taken email returns
// ErrEmailAlreadyRegistered.
func (p *LocalAccountProvider) CreateAccount(ctx context.Context, input NewAccount) (*Account, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrInvalidPayload
	}

	hash, err := p.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	uid, err := AccountUID(email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive account id")
	}

	account := &Account{
		UID:           uid,
		Email:         email,
		DisplayName:   strings.TrimSpace(input.DisplayName),
		PhotoURL:      nonEmpty(input.PhotoURL),
		PasswordHash:  hash,
		EmailVerified: false,
		CreatedAt:     time.Now().UTC(),
	}

	if err := p.store.Create(ctx, account); err != nil {
		if stderrors.Is(err, ErrEmailAlreadyRegistered) {
			return nil, ErrEmailAlreadyRegistered
		}
		p.logger.Error("create account failed: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
	}

	return account, nil
}

// VerifyPassword returns the account for email when password matches.
// Every failure is reported as ErrInvalidLogin.
func (p *LocalAccountProvider) VerifyPassword(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !stderrors.Is(err, ErrAccountNotFound) {
			p.logger.Error("account lookup failed: %v", err)
		}
		return nil, ErrInvalidLogin
	}

	if err := p.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrInvalidLogin
	}

	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
