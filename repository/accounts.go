package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/goliatone/go-identity"
	"github.com/uptrace/bun"
)

// AccountModel is the Bun model for email accounts.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`

	UID           string    `bun:"uid,pk"`
	Email         string    `bun:"email,notnull,unique"`
	DisplayName   string    `bun:"display_name"`
	PhotoURL      *string   `bun:"photo_url"`
	PasswordHash  string    `bun:"password_hash,notnull"`
	EmailVerified bool      `bun:"email_verified,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// AccountRepository implements identity.AccountStore using Bun.
type AccountRepository struct {
	db bun.IDB
}

// NewAccountRepository creates a new repository.
func NewAccountRepository(db bun.IDB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create implements identity.AccountStore. A duplicate uid or email returns
// identity.ErrEmailAlreadyRegistered.
func (r *AccountRepository) Create(ctx context.Context, account *identity.Account) error {
	model := &AccountModel{
		UID:           account.UID,
		Email:         account.Email,
		DisplayName:   account.DisplayName,
		PhotoURL:      account.PhotoURL,
		PasswordHash:  account.PasswordHash,
		EmailVerified: account.EmailVerified,
		CreatedAt:     account.CreatedAt,
	}

	res, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("accounts: create: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return identity.ErrEmailAlreadyRegistered
	}
	return nil
}

// GetByEmail implements identity.AccountStore.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	var model AccountModel
	err := r.db.NewSelect().
		Model(&model).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrAccountNotFound
		}
		return nil, fmt.Errorf("accounts: get by email: %w", err)
	}

	return &identity.Account{
		UID:           model.UID,
		Email:         model.Email,
		DisplayName:   model.DisplayName,
		PhotoURL:      model.PhotoURL,
		PasswordHash:  model.PasswordHash,
		EmailVerified: model.EmailVerified,
		CreatedAt:     model.CreatedAt,
	}, nil
}
