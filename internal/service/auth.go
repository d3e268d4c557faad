package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
	"github.com/safeguard-school/safeguard-api/internal/validation"
)

// ErrSuperseded is returned by Login/Register when a logout (or a newer
// attempt) pre-empted the in-flight call; the stale result is discarded.
var ErrSuperseded = errors.New("authentication attempt superseded")

// AuthManagerOptions groups dependencies for AuthManager.
type AuthManagerOptions struct {
	Provider ports.IdentityProvider
	Store    ports.SessionStore
	Logger   *slog.Logger
}

// AuthManager owns the authentication state machine
// (signed-out / authenticating / signed-in), drives the identity
// collaborator and persists the confirmed identity in the session store.
//
// All state mutation is linearized by an internal mutex; the collaborator
// call itself runs outside the lock while the phase is authenticating. An
// epoch counter, bumped by logout and by every new attempt, guarantees a
// stale collaborator response can never commit a sign-in afterwards.
type AuthManager struct {
	provider ports.IdentityProvider
	store    ports.SessionStore
	logger   *slog.Logger

	mu       sync.Mutex
	phase    domainauth.Phase
	identity *domainauth.Identity
	epoch    uint64
	subs     []func(domainauth.State)
}

// NewAuthManager constructs an AuthManager and determines the initial state
// synchronously from the session store: record present means signed-in,
// absent means signed-out. A corrupt record reads as absent and is logged;
// startup never fails on it.
func NewAuthManager(ctx context.Context, opts AuthManagerOptions) *AuthManager {
	m := &AuthManager{
		provider: opts.Provider,
		store:    opts.Store,
		logger:   opts.Logger,
		phase:    domainauth.PhaseSignedOut,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	id, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "session record unreadable, starting signed out", "error", err)
	}
	if ok {
		m.phase = domainauth.PhaseSignedIn
		m.identity = &id
	}
	return m
}

// State returns a snapshot of the current authentication state.
func (m *AuthManager) State() domainauth.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// CurrentIdentity returns the signed-in identity, if any.
func (m *AuthManager) CurrentIdentity() (domainauth.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return domainauth.Identity{}, false
	}
	return *m.identity, true
}

// Subscribe registers fn to be called synchronously after every committed
// state transition. Subscribers must not call back into the manager.
func (m *AuthManager) Subscribe(fn func(domainauth.State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Login verifies the credentials against the identity collaborator and, on
// success, commits the signed-in state and persists the session record.
// It may be called while already signed in; the new identity overwrites the
// old one. On any collaborator failure the state settles at signed-out and
// the error kind (ports.ErrBadCredentials, ports.ErrProviderUnavailable) is
// surfaced for messaging.
func (m *AuthManager) Login(ctx context.Context, creds domainauth.Credentials) error {
	if err := validation.Validate.StructCtx(ctx, creds); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrBadCredentials, err)
	}
	return m.authenticate(ctx, func(ctx context.Context) (domainauth.Identity, error) {
		return m.provider.Authenticate(ctx, creds)
	})
}

// Register creates a new account through the identity collaborator and signs
// it in. Email uniqueness is the collaborator's policy; a rejection surfaces
// as ports.ErrBadCredentials.
func (m *AuthManager) Register(ctx context.Context, reg domainauth.Registration) error {
	if err := validation.Validate.StructCtx(ctx, reg); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrBadCredentials, err)
	}
	return m.authenticate(ctx, func(ctx context.Context) (domainauth.Identity, error) {
		return m.provider.Register(ctx, reg)
	})
}

// Logout clears the identity, the session record and the current epoch so
// that any in-flight login or register can no longer commit. It is callable
// from every state and always succeeds locally; a store failure is logged
// but does not resurrect the session.
func (m *AuthManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.epoch++
	m.phase = domainauth.PhaseSignedOut
	m.identity = nil
	m.notifyLocked()
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "clear session record failed", "error", err)
	}
}

// authenticate runs one collaborator resolution under the epoch guard.
func (m *AuthManager) authenticate(ctx context.Context, resolve func(context.Context) (domainauth.Identity, error)) error {
	m.mu.Lock()
	m.epoch++
	attempt := m.epoch
	m.phase = domainauth.PhaseAuthenticating
	m.identity = nil
	m.notifyLocked()
	m.mu.Unlock()

	id, err := resolve(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != attempt {
		// A logout or newer attempt intervened; this result is stale.
		return ErrSuperseded
	}

	if err != nil {
		m.phase = domainauth.PhaseSignedOut
		m.identity = nil
		m.notifyLocked()
		return fmt.Errorf("authenticate: %w", err)
	}

	m.phase = domainauth.PhaseSignedIn
	m.identity = &id
	m.notifyLocked()

	if saveErr := m.store.Save(ctx, id); saveErr != nil {
		// The in-memory session is committed; the record just won't
		// survive a restart. Surface it rather than failing silently.
		return fmt.Errorf("save session record: %w", saveErr)
	}
	return nil
}

func (m *AuthManager) snapshotLocked() domainauth.State {
	s := domainauth.State{Phase: m.phase}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

func (m *AuthManager) notifyLocked() {
	s := m.snapshotLocked()
	for _, fn := range m.subs {
		fn(s)
	}
}
