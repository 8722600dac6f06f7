package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type serviceFixture struct {
	service  *identity.AuthService
	profiles *memoryProfileStore
	verifier *MockTokenVerifier
	resolver *identity.CredentialResolver
}

func newServiceFixture(t *testing.T, devMode bool) *serviceFixture {
	t.Helper()

	logger := &captureLogger{}
	profiles := newMemoryProfileStore()
	verifier := new(MockTokenVerifier)
	resolver := newTestResolver(devMode, verifier, profiles, logger)

	minter, err := identity.NewCustomTokenMinter(identity.Config{CustomTokenSigningKey: "k"})
	require.NoError(t, err)

	service := identity.NewAuthService(resolver,
		identity.NewProfileReconciler(profiles, identity.WithReconcilerLogger(logger)),
		identity.WithAccountProvider(identity.NewLocalAccountProvider(newMemoryAccountStore(), bcrypt.MinCost, logger)),
		identity.WithCustomTokenMinter(minter),
		identity.WithServiceLogger(logger),
	)

	return &serviceFixture{service: service, profiles: profiles, verifier: verifier, resolver: resolver}
}

func TestGoogleAuthTestFixture(t *testing.T) {
	f := newServiceFixture(t, true)

	res, err := f.service.GoogleAuth(context.Background(), "test-token")
	require.NoError(t, err)

	assert.Equal(t, "Google authentication successful (test mode)", res.Message)
	assert.Equal(t, identity.TestFixtureSubjectID, res.User.UID)
	require.NotNil(t, res.Profile)
	assert.Equal(t, identity.TestFixtureDisplayName, res.Profile.Name)
	assert.Equal(t, "test-token", res.Token)
	assert.Equal(t, 1, f.profiles.creates)
}

func TestGoogleAuthProductionToken(t *testing.T) {
	f := newServiceFixture(t, false)
	f.verifier.On("Verify", mock.Anything, "id-token").Return(&identity.IdentityClaims{
		SubjectID:     "g1",
		Email:         "ana@gmail.com",
		EmailVerified: true,
		DisplayName:   "Ana",
	}, nil)

	res, err := f.service.GoogleAuth(context.Background(), "id-token")
	require.NoError(t, err)

	assert.Equal(t, "Google authentication successful", res.Message)
	assert.Equal(t, "g1", res.Profile.ID)

	_, err = f.service.GoogleAuth(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, 1, f.profiles.creates)
	assert.Equal(t, 0, f.profiles.updates)
}

func TestGoogleAuthRejections(t *testing.T) {
	f := newServiceFixture(t, false)
	f.verifier.On("Verify", mock.Anything, "unverified").Return(&identity.IdentityClaims{
		SubjectID: "g1", Email: "a@b.com", EmailVerified: false,
	}, nil)
	f.verifier.On("Verify", mock.Anything, mock.Anything).Return(nil, errors.New("bad token"))

	emulator := unsignedToken(map[string]any{"iss": "firebase-auth-emulator", "sub": "emu"})

	for _, token := range []string{"", "unverified", "garbage", emulator} {
		_, err := f.service.GoogleAuth(context.Background(), token)
		assert.ErrorIs(t, err, identity.ErrInvalidCredential, token)
		assert.Equal(t, 401, identity.StatusCode(err))
	}
	assert.Equal(t, 0, f.profiles.creates)
}

func TestGoogleAuthEmulatorInDevMode(t *testing.T) {
	f := newServiceFixture(t, true)
	emulator := unsignedToken(map[string]any{
		"iss":   "firebase-auth-emulator",
		"sub":   "emu1",
		"email": "emu@example.com",
		"name":  "Emu",
	})

	res, err := f.service.GoogleAuth(context.Background(), emulator)
	require.NoError(t, err)

	assert.Equal(t, "Google authentication successful", res.Message)
	assert.Equal(t, "emu1", res.User.UID)
	assert.Equal(t, "Emu", res.Profile.Name)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestEmailSignupAndLogin(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	signup, err := f.service.EmailSignup(ctx, identity.EmailSignup{
		Email:    "ana@example.com",
		Password: "s3cret!",
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully", signup.Message)
	assert.NotEmpty(t, signup.CustomToken)

	ic, err := f.resolver.Resolve(ctx, signup.CustomToken, identity.ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, signup.User.UID, ic.SubjectID)

	_, err = f.service.EmailSignup(ctx, identity.EmailSignup{Email: "ana@example.com", Password: "s3cret!", Name: "Ana"})
	assert.ErrorIs(t, err, identity.ErrEmailAlreadyRegistered)

	login, err := f.service.EmailLogin(ctx, identity.EmailLogin{Email: "ana@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, signup.User.UID, login.User.UID)

	_, err = f.service.EmailLogin(ctx, identity.EmailLogin{Email: "ana@example.com", Password: "nope"})
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)
	assert.Equal(t, "invalid email or password", identity.PublicMessage(err))
}

func TestEmailSignupValidation(t *testing.T) {
	f := newServiceFixture(t, false)

	_, err := f.service.EmailSignup(context.Background(), identity.EmailSignup{
		Email:    "not-an-email",
		Password: "123",
		Phone:    strPtr("12345"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, identity.StatusCode(err))
	assert.Equal(t, identity.TextCodeInvalidPayload, identity.TextCode(err))

	_, err = f.service.EmailLogin(context.Background(), identity.EmailLogin{Email: "x"})
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)
}

func TestEmailFlowsWithoutAccountProvider(t *testing.T) {
	s := identity.NewAuthService(newTestResolver(false, nil, nil, &captureLogger{}), identity.NewProfileReconciler(newMemoryProfileStore()))

	_, err := s.EmailSignup(context.Background(), identity.EmailSignup{Email: "a@b.com", Password: "s3cret!", Name: "A"})
	assert.ErrorIs(t, err, identity.ErrSignupFailed)

	_, err = s.EmailLogin(context.Background(), identity.EmailLogin{Email: "a@b.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, identity.ErrInvalidLogin)
}
