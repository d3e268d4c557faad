package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	mocks "github.com/safeguard-school/safeguard-api/internal/mocks/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
	"github.com/safeguard-school/safeguard-api/internal/service"
)

// newTestRouter wires a real auth manager and navigation controller behind
// the router, backed by in-memory doubles.
func newTestRouter(t *testing.T, provider *mocks.MockIdentityProvider) http.Handler {
	t.Helper()
	if provider == nil {
		provider = mocks.NewMockIdentityProvider()
	}
	mgr := service.NewAuthManager(context.Background(), service.AuthManagerOptions{
		Provider: provider,
		Store:    mocks.NewMemorySessionStore(),
	})
	return NewRouter(RouterServices{
		Auth: mgr,
		Nav:  service.NewNavigationController(mgr),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestAuthEndpoints_LoginFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/auth/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])

	rec = doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alex@safeguard.edu","password":"pw123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alex@safeguard.edu", user["email"])

	rec = doJSON(t, router, http.MethodGet, "/auth/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["authenticated"])
}

func TestAuthEndpoints_LoginBadCredentials(t *testing.T) {
	provider := mocks.NewMockIdentityProvider()
	provider.AuthenticateFunc = func(context.Context, domainauth.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, ports.ErrBadCredentials
	}
	router := newTestRouter(t, provider)

	rec := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alex@safeguard.edu","password":"nope"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid_credentials", body["error"])
	assert.Equal(t, false, body["retryable"], "bad credentials need new input, not a retry")
}

func TestAuthEndpoints_LoginProviderDown(t *testing.T) {
	provider := mocks.NewMockIdentityProvider()
	provider.AuthenticateFunc = func(context.Context, domainauth.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, ports.ErrProviderUnavailable
	}
	router := newTestRouter(t, provider)

	rec := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alex@safeguard.edu","password":"pw123456"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "identity_provider_unavailable", body["error"])
	assert.Equal(t, true, body["retryable"])
}

func TestAuthEndpoints_LoginMalformedBody(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, rec)["error"])

	rec = doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"a@x.edu","password":"pw","surprise":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthEndpoints_LoginInvalidEmail(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"not-an-email","password":"pw123456"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rec)["error"])
}

func TestAuthEndpoints_RegisterFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"new@safeguard.edu","password":"pw123456","name":"New Student","role":"student","grade":"Grade 4"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "New Student", user["name"])
}

func TestAuthEndpoints_RegisterInvalidRole(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"new@safeguard.edu","password":"pw123456","name":"New","role":"teacher"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rec)["error"])
}

func TestAuthEndpoints_Logout(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alex@safeguard.edu","password":"pw123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/auth/status", "")
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])

	// Logout is idempotent over HTTP too.
	rec = doJSON(t, router, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthEndpoints_SupersededMapsToConflict(t *testing.T) {
	h := &AuthHandlers{Mgr: &stubAuthManager{loginErr: service.ErrSuperseded}}

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@x.edu","password":"pw"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "attempt_superseded", body["error"])
	assert.Equal(t, true, body["retryable"])
}

// stubAuthManager returns canned results for handler-level error mapping.
type stubAuthManager struct {
	loginErr error
}

func (s *stubAuthManager) Login(context.Context, domainauth.Credentials) error { return s.loginErr }
func (s *stubAuthManager) Register(context.Context, domainauth.Registration) error {
	return s.loginErr
}
func (s *stubAuthManager) Logout(context.Context) {}
func (s *stubAuthManager) State() domainauth.State {
	return domainauth.State{Phase: domainauth.PhaseSignedOut}
}
