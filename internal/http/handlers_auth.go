package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
	"github.com/safeguard-school/safeguard-api/internal/service"
)

// AuthManagerInterface is the slice of the auth manager the handlers need.
type AuthManagerInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) error
	Register(ctx context.Context, reg domainauth.Registration) error
	Logout(ctx context.Context)
	State() domainauth.State
}

// AuthHandlers provides HTTP handlers for the session lifecycle.
type AuthHandlers struct {
	Mgr    AuthManagerInterface
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login endpoint.
// POST /auth/login with a JSON credentials body.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds domainauth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	if err := h.Mgr.Login(r.Context(), creds); err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	h.writeStatus(w)
}

// Register handles the registration endpoint.
// POST /auth/register with a JSON registration body.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var reg domainauth.Registration
	if !DecodeJSON(w, r, &reg) {
		return
	}

	if err := h.Mgr.Register(r.Context(), reg); err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	h.writeStatus(w)
}

// Logout handles the logout endpoint. It always succeeds.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Mgr.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, _ *http.Request) {
	h.writeStatus(w)
}

func (h *AuthHandlers) writeStatus(w http.ResponseWriter) {
	s := h.Mgr.State()
	if !s.SignedIn() {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          s.Identity,
	})
}

// writeAuthError maps the auth error taxonomy onto HTTP statuses. Transient
// failures (unreachable collaborator, superseded attempt) are flagged
// retryable; credential failures need corrected input instead.
func (h *AuthHandlers) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ports.ErrBadCredentials):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
	case errors.Is(err, ports.ErrProviderUnavailable):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "identity_provider_unavailable", Err: err, Retryable: true})
	case errors.Is(err, service.ErrSuperseded):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "attempt_superseded", Err: err, Retryable: true})
	default:
		h.logger().ErrorContext(r.Context(), "authentication failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "authentication_failed", Err: err})
	}
}
