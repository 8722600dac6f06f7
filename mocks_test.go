package identity_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/mock"
)

// MockProfileStore implements identity.ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Get(ctx context.Context, id string) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*identity.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileStore) Set(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileStore) Update(ctx context.Context, id string, update identity.ProfileUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// MockTokenVerifier implements identity.TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, rawToken string) (*identity.IdentityClaims, error) {
	args := m.Called(ctx, rawToken)
	if c, ok := args.Get(0).(*identity.IdentityClaims); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// memoryProfileStore is a map backed identity.ProfileStore.
type memoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*identity.Profile
	updates  int
	creates  int
}

func newMemoryProfileStore() *memoryProfileStore {
	return &memoryProfileStore{profiles: map[string]*identity.Profile{}}
}

func (s *memoryProfileStore) Get(_ context.Context, id string) (*identity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, identity.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (s *memoryProfileStore) Create(_ context.Context, profile *identity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return identity.ErrProfileExists
	}
	s.creates++
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

func (s *memoryProfileStore) Set(_ context.Context, profile *identity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

func (s *memoryProfileStore) Update(_ context.Context, id string, update identity.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return identity.ErrProfileNotFound
	}
	s.updates++
	update.ApplyTo(p)
	return nil
}

// memoryAccountStore is a map backed identity.AccountStore.
type memoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*identity.Account
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{accounts: map[string]*identity.Account{}}
}

func (s *memoryAccountStore) Create(_ context.Context, account *identity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Email]; ok {
		return identity.ErrEmailAlreadyRegistered
	}
	cp := *account
	s.accounts[account.Email] = &cp
	return nil
}

func (s *memoryAccountStore) GetByEmail(_ context.Context, email string) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return nil, identity.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	mu    sync.Mutex
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(format string, args ...any) { l.record("debug", format, args...) }
func (l *captureLogger) Info(format string, args ...any)  { l.record("info", format, args...) }
func (l *captureLogger) Error(format string, args ...any) { l.record("error", format, args...) }

// unsignedToken builds a compact JWT with the given payload and a junk signature.
func unsignedToken(payload map[string]any) string {
	header, _ := json.Marshal(map[string]any{"alg": "none", "typ": "JWT"})
	body, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func strPtr(s string) *string { return &s }
