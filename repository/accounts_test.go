package repository

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepositoryCreateAndGet(t *testing.T) {
	repo := setupManager(t).Accounts()
	ctx := context.Background()

	account := &identity.Account{
		UID:          "uid-1",
		Email:        "ana@example.com",
		DisplayName:  "Ana",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, "Ana", got.DisplayName)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.EmailVerified)
}

func TestAccountRepositoryDuplicateEmail(t *testing.T) {
	repo := setupManager(t).Accounts()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &identity.Account{UID: "uid-1", Email: "ana@example.com", PasswordHash: "h"}))

	err := repo.Create(ctx, &identity.Account{UID: "uid-2", Email: "ana@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, identity.ErrEmailAlreadyRegistered)
}

func TestAccountRepositoryUnknownEmail(t *testing.T) {
	repo := setupManager(t).Accounts()

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrAccountNotFound)
}

func TestAccountRepositoryWithLocalProvider(t *testing.T) {
	repo := setupManager(t).Accounts()
	ctx := context.Background()
	provider := identity.NewLocalAccountProvider(repo, 4, nil)

	account, err := provider.CreateAccount(ctx, identity.NewAccount{
		Email:       "Ana@Example.com",
		Password:    "secret123",
		DisplayName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", account.Email)

	_, err = provider.CreateAccount(ctx, identity.NewAccount{Email: "ana@example.com", Password: "other123"})
	assert.ErrorIs(t, err, identity.ErrEmailAlreadyRegistered)

	found, err := provider.VerifyPassword(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, account.UID, found.UID)

	_, err = provider.VerifyPassword(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)
}
