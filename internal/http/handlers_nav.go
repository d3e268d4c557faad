package httpx

import (
	"net/http"

	"github.com/safeguard-school/safeguard-api/internal/domain/nav"
)

// NavControllerInterface is the slice of the navigation controller the
// handlers need.
type NavControllerInterface interface {
	State() nav.State
	Navigate(screen nav.Screen, lesson string) nav.State
	Menu() []nav.MenuItem
}

// NavHandlers provides HTTP handlers for screen navigation. Screens call
// these instead of mutating navigation state themselves.
type NavHandlers struct {
	Nav NavControllerInterface
}

// State returns the current navigation snapshot.
// GET /nav/state.
func (h *NavHandlers) State(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Nav.State())
}

// navigateRequest is the JSON body of a navigation request.
type navigateRequest struct {
	Screen nav.Screen `json:"screen"`
	Lesson string     `json:"lesson,omitempty"`
}

// Navigate requests a screen transition and returns the committed state.
// Unauthorized requests are redirected per policy, never rejected with an
// error status; the caller inspects the returned screen.
// POST /nav/navigate.
func (h *NavHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	WriteJSON(w, http.StatusOK, h.Nav.Navigate(req.Screen, req.Lesson))
}

// Menu returns the role-filtered navigation menu.
// GET /nav/menu.
func (h *NavHandlers) Menu(w http.ResponseWriter, _ *http.Request) {
	items := h.Nav.Menu()
	if items == nil {
		items = []nav.MenuItem{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
