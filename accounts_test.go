package identity_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := identity.NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.NoError(t, h.ComparePasswordAndHash("s3cret!", hash))
	assert.Error(t, h.ComparePasswordAndHash("wrong", hash))
	assert.Error(t, h.ComparePasswordAndHash("s3cret!", "not-a-hash"))

	_, err = h.HashPassword("")
	assert.Error(t, err)
}

func TestAccountUIDIsStable(t *testing.T) {
	a, err := identity.AccountUID("Ana@Example.com ")
	require.NoError(t, err)
	b, err := identity.AccountUID("ana@example.com")
	require.NoError(t, err)
	c, err := identity.AccountUID("bia@example.com")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestLocalAccountProvider(t *testing.T) {
	ctx := context.Background()
	p := identity.NewLocalAccountProvider(newMemoryAccountStore(), bcrypt.MinCost, &captureLogger{})

	account, err := p.CreateAccount(ctx, identity.NewAccount{
		Email:       " Ana@Example.com",
		Password:    "s3cret!",
		DisplayName: " Ana ",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", account.Email)
	assert.Equal(t, "Ana", account.DisplayName)
	assert.NotEmpty(t, account.UID)
	assert.NotEqual(t, "s3cret!", account.PasswordHash)

	_, err = p.CreateAccount(ctx, identity.NewAccount{Email: "ana@example.com", Password: "other1"})
	assert.ErrorIs(t, err, identity.ErrEmailAlreadyRegistered)

	got, err := p.VerifyPassword(ctx, "ANA@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, account.UID, got.UID)

	_, err = p.VerifyPassword(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)

	_, err = p.VerifyPassword(ctx, "nobody@example.com", "s3cret!")
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)
}
