package service

import (
	"sync"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/domain/nav"
)

// NavigationController is the single source of truth for the active screen.
// Every transition is checked against the authentication state and the
// role-visibility table; unauthorized requests are redirected, never errors:
// signed-out requests land on the login screen, signed-in requests for a
// screen outside the role's set land on the dashboard.
//
// The controller holds a read-only view of the identity, refreshed through
// the AuthManager subscription, so that navigation and authentication state
// are never observable in an inconsistent combination.
type NavigationController struct {
	mu       sync.Mutex
	identity *domainauth.Identity
	state    nav.State
	subs     []func(nav.State)
}

// NewNavigationController derives the initial navigation state from the
// manager (signed-in starts on dashboard, signed-out on login) and
// subscribes to it so that auth transitions immediately force the screen
// back into the matching set.
func NewNavigationController(auth *AuthManager) *NavigationController {
	c := &NavigationController{}

	s := auth.State()
	if s.SignedIn() {
		id := *s.Identity
		c.identity = &id
		c.state = nav.State{Screen: nav.ScreenDashboard}
	} else {
		c.state = nav.State{Screen: nav.ScreenLogin}
	}

	auth.Subscribe(c.applyAuthState)
	return c
}

// State returns the current navigation snapshot.
func (c *NavigationController) State() nav.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Menu returns the navigation entries visible to the current identity.
// Signed-out visitors have no menu.
func (c *NavigationController) Menu() []nav.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil
	}
	return nav.MenuFor(c.identity.Role)
}

// Subscribe registers fn to be called synchronously after every committed
// navigation transition. Subscribers must not call back into the controller.
func (c *NavigationController) Subscribe(fn func(nav.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Navigate requests a transition to the given screen, with an optional
// lesson selection honored only by the lesson screen. The screen and the
// selection are committed atomically and the resulting state is returned;
// redirected requests return the screen they were redirected to. Unknown
// screens behave like a request for the default screen of the current
// authentication state.
func (c *NavigationController) Navigate(screen nav.Screen, lesson string) nav.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.resolveLocked(screen)
	next := nav.State{Screen: target}
	if target.HasSubSelection() {
		next.Lesson = lesson
	}
	c.commitLocked(next)
	return c.state
}

// resolveLocked applies the redirect policy to a requested screen.
func (c *NavigationController) resolveLocked(screen nav.Screen) nav.Screen {
	if c.identity == nil {
		if screen.Known() && screen.Public() {
			return screen
		}
		return nav.ScreenLogin
	}
	if !screen.Known() || screen.Public() || !nav.Allowed(screen, c.identity.Role) {
		return nav.ScreenDashboard
	}
	return screen
}

// applyAuthState is the AuthManager subscription. Any transition out of
// signed-in forces the screen into the unauthenticated set in the same
// committed step, and a fresh sign-in lands on the dashboard.
func (c *NavigationController) applyAuthState(s domainauth.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.SignedIn() {
		id := *s.Identity
		c.identity = &id
		if c.state.Screen.Public() {
			c.commitLocked(nav.State{Screen: nav.ScreenDashboard})
		}
		return
	}

	c.identity = nil
	if !c.state.Screen.Public() {
		c.commitLocked(nav.State{Screen: nav.ScreenLogin})
	}
}

func (c *NavigationController) commitLocked(next nav.State) {
	if c.state == next {
		return
	}
	c.state = next
	for _, fn := range c.subs {
		fn(next)
	}
}
