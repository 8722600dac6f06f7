package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomTokenMinterRequiresKey(t *testing.T) {
	_, err := identity.NewCustomTokenMinter(identity.Config{})
	assert.ErrorIs(t, err, identity.ErrCustomTokenDisabled)

	var nilMinter *identity.CustomTokenMinter
	_, _, err = nilMinter.Mint("u1")
	assert.ErrorIs(t, err, identity.ErrCustomTokenDisabled)
}

func TestMintedTokenIsClassifiedAsCustomToken(t *testing.T) {
	minter, err := identity.NewCustomTokenMinter(identity.Config{
		CustomTokenSigningKey: "signing-key",
		ServiceAccountEmail:   "svc@project.iam.gserviceaccount.com",
		CustomTokenTTL:        time.Minute,
	})
	require.NoError(t, err)

	token, exp, err := minter.Mint("u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	assert.Equal(t, identity.TierDevCustomToken, identity.Classify(token, false))
	assert.Equal(t, identity.TierDevCustomToken, identity.Classify(token, true))

	_, _, err = minter.Mint("  ")
	assert.Error(t, err)
}

func TestMintedTokenResolvesToAccountUID(t *testing.T) {
	minter, err := identity.NewCustomTokenMinter(identity.Config{CustomTokenSigningKey: "k"})
	require.NoError(t, err)

	store := newMemoryProfileStore()
	store.profiles["u1"] = &identity.Profile{ID: "u1", Name: "Ana", Email: "ana@example.com"}

	token, _, err := minter.Mint("u1")
	require.NoError(t, err)

	r := newTestResolver(false, nil, store, &captureLogger{})
	ic, err := r.Resolve(context.Background(), token, identity.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, identity.TierDevCustomToken, ic.Tier)
	assert.Equal(t, "u1", ic.SubjectID)
	assert.Equal(t, "ana@example.com", ic.Email)
	assert.Equal(t, "Ana", ic.DisplayName)
}
