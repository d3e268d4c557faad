package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// MockIdentityProvider simulates the identity collaborator for tests.
type MockIdentityProvider struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
	RegisterFunc     func(ctx context.Context, reg domainauth.Registration) (domainauth.Identity, error)

	// DefaultIdentity is returned by both operations when no func override
	// is set; the email from the request is echoed back.
	DefaultIdentity domainauth.Identity
}

// NewMockIdentityProvider creates a MockIdentityProvider with a student
// identity default.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultIdentity: domainauth.Identity{
			ID:     "mock-user-1",
			Name:   "Mock Student",
			Role:   domainauth.RoleStudent,
			School: "Mock Elementary",
			Grade:  "Grade 5",
		},
	}
}

func (m *MockIdentityProvider) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	id := m.DefaultIdentity
	id.Email = creds.Email
	return id, nil
}

func (m *MockIdentityProvider) Register(ctx context.Context, reg domainauth.Registration) (domainauth.Identity, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	id := m.DefaultIdentity
	id.Email = reg.Email
	id.Name = reg.Name
	id.Role = reg.Role
	return id, nil
}

// MemorySessionStore is an in-memory single-record session store for unit
// tests. It is safe for concurrent use.
type MemorySessionStore struct {
	mu       sync.Mutex
	identity *domainauth.Identity

	SaveErr  error // returned by Save when set
	LoadErr  error // returned by Load when set (record reads as absent)
	ClearErr error // returned by Clear when set
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Seed stores an identity directly, bypassing error injection.
func (m *MemorySessionStore) Seed(id domainauth.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = &id
}

func (m *MemorySessionStore) Save(_ context.Context, id domainauth.Identity) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = &id
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context) (domainauth.Identity, bool, error) {
	if m.LoadErr != nil {
		return domainauth.Identity{}, false, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return domainauth.Identity{}, false, nil
	}
	return *m.identity, true, nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	return nil
}
