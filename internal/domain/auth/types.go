package auth

// Package auth contains domain-level types for identity and the session
// lifecycle. It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Keep string form for easy persistence. Valid values are defined below.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Identity represents the authenticated principal confirmed by the
// identity collaborator. Role is immutable for the lifetime of a session;
// Grade is meaningful only when Role is student.
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	School string `json:"school,omitempty"`
	Grade  string `json:"grade,omitempty"`
}

// IsAdmin returns true if the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Credentials carries a login request.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration carries everything needed to create a new account.
// School may be empty; the provider fills in a default.
type Registration struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
	Role     Role   `json:"role"     validate:"required,oneof=student admin"`
	School   string `json:"school,omitempty"`
	Grade    string `json:"grade,omitempty"`
}

// Phase is the authentication state machine's discriminator.
type Phase string

const (
	PhaseSignedOut      Phase = "signed-out"
	PhaseAuthenticating Phase = "authenticating"
	PhaseSignedIn       Phase = "signed-in"
)

// State is an observable snapshot of the authentication state machine.
// Identity is set only when Phase is PhaseSignedIn.
type State struct {
	Phase    Phase
	Identity *Identity
}

// SignedIn reports whether the snapshot represents a committed sign-in.
func (s State) SignedIn() bool { return s.Phase == PhaseSignedIn && s.Identity != nil }
