package nav

// Package nav contains domain-level types for screen navigation and the
// static role-visibility policy. It is pure and free of transport concerns.

import (
	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
)

// Screen identifies one of the application's screens.
type Screen string

const (
	// Unauthenticated screens.
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"

	// Authenticated screens.
	ScreenDashboard     Screen = "dashboard"
	ScreenLearn         Screen = "learn"
	ScreenEmergencyPlan Screen = "emergency-plan"
	ScreenAlerts        Screen = "alerts"
	ScreenLesson        Screen = "lesson"
)

// Known reports whether the screen is part of the closed enumeration.
func (s Screen) Known() bool {
	switch s {
	case ScreenLogin, ScreenRegister, ScreenDashboard, ScreenLearn,
		ScreenEmergencyPlan, ScreenAlerts, ScreenLesson:
		return true
	}
	return false
}

// Public reports whether the screen is reachable without authentication.
func (s Screen) Public() bool {
	return s == ScreenLogin || s == ScreenRegister
}

// HasSubSelection reports whether the screen declares a sub-selection slot.
// Only the lesson screen carries a selected lesson id.
func (s Screen) HasSubSelection() bool { return s == ScreenLesson }

// visibility is the role-visibility table: for each authenticated screen,
// the set of roles allowed to view it. This table is the authorization
// oracle consulted on every navigation request.
var visibility = map[Screen][]domainauth.Role{
	ScreenDashboard:     {domainauth.RoleStudent, domainauth.RoleAdmin},
	ScreenLearn:         {domainauth.RoleStudent, domainauth.RoleAdmin},
	ScreenEmergencyPlan: {domainauth.RoleStudent, domainauth.RoleAdmin},
	ScreenAlerts:        {domainauth.RoleAdmin},
	ScreenLesson:        {domainauth.RoleStudent, domainauth.RoleAdmin},
}

// Allowed reports whether the given role may view the screen.
// Public screens are visible to everyone, including signed-out visitors.
func Allowed(s Screen, role domainauth.Role) bool {
	if s.Public() {
		return true
	}
	for _, r := range visibility[s] {
		if r == role {
			return true
		}
	}
	return false
}

// State is the navigation snapshot: the active screen plus the selected
// lesson, which is meaningful only while Screen is ScreenLesson.
type State struct {
	Screen Screen `json:"screen"`
	Lesson string `json:"lesson,omitempty"`
}

// MenuItem is one role-filtered entry of the main navigation menu.
type MenuItem struct {
	Screen Screen `json:"screen"`
	Label  string `json:"label"`
}

// menuItems lists the header navigation in display order. The lesson screen
// is reached through learn and deliberately has no menu entry.
var menuItems = []MenuItem{
	{Screen: ScreenDashboard, Label: "Dashboard"},
	{Screen: ScreenLearn, Label: "Learn"},
	{Screen: ScreenEmergencyPlan, Label: "Emergency Plan"},
	{Screen: ScreenAlerts, Label: "Alerts"},
}

// MenuFor returns the navigation entries visible to the given role.
func MenuFor(role domainauth.Role) []MenuItem {
	items := make([]MenuItem, 0, len(menuItems))
	for _, it := range menuItems {
		if Allowed(it.Screen, role) {
			items = append(items, it)
		}
	}
	return items
}
