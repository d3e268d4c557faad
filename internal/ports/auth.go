package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
)

// Error kinds surfaced by IdentityProvider implementations. The auth state
// machine treats both the same way (back to signed-out); callers may use
// them to choose a user-facing message.
var (
	// ErrBadCredentials is returned when the collaborator rejects the
	// login or registration (wrong password, duplicate email, ...).
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrProviderUnavailable is returned when the collaborator cannot be
	// reached (network failure, timeout).
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// IdentityProvider is the external identity collaborator. It is invoked at
// most once per login/register call and resolves exactly once; latency and
// transport are the adapter's concern.
type IdentityProvider interface {
	// Authenticate verifies the credentials and returns the confirmed
	// identity. Rejections map to ErrBadCredentials, transport failures
	// to ErrProviderUnavailable.
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)

	// Register creates a new account and returns the confirmed identity
	// with a provider-assigned id. Email uniqueness is this collaborator's
	// policy, not the caller's.
	Register(ctx context.Context, reg domainauth.Registration) (domainauth.Identity, error)
}

// SessionStore persists at most one serialized Identity, the durable
// "who is signed in on this device" record.
type SessionStore interface {
	// Save overwrites the session record. Failures surface to the caller;
	// they are never swallowed.
	Save(ctx context.Context, id domainauth.Identity) error

	// Load returns the stored identity, or ok=false when no record exists.
	// A corrupt record reads as absent; the returned error then describes
	// the parse failure so the caller can log it.
	Load(ctx context.Context) (id domainauth.Identity, ok bool, err error)

	// Clear removes the session record. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}
