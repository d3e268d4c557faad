package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents which identity collaborator the application talks to.
type AuthMode string

const (
	// AuthModeMock uses the simulated directory (development only).
	AuthModeMock AuthMode = "mock"
	// AuthModeDirectory uses the local Postgres school directory.
	AuthModeDirectory AuthMode = "directory"
	// AuthModeOAuth uses a central IdP via the OAuth2 password grant.
	AuthModeOAuth AuthMode = "oauth"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "mock", "directory", "oauth":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: mock, directory, oauth)", v)
	}
}

// DevAuthConfig controls the simulated directory identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	AdminEmail string        `env:"ADMIN_EMAIL" envDefault:"admin@safeguard.edu"`
	Latency    time.Duration `env:"LATENCY"     envDefault:"1s"`
}

// OAuthConfig contains the password-grant IdP configuration, including the
// JMESPath expressions that pick Identity fields out of the userinfo
// document.
type OAuthConfig struct {
	TokenURL     string `env:"TOKEN_URL"`
	UserInfoURL  string `env:"USERINFO_URL"`
	ClientID     string `env:"CLIENT_ID"     envDefault:"safeguard"`
	ClientSecret string `env:"CLIENT_SECRET"`

	ClaimID     string `env:"CLAIM_ID"     envDefault:"sub"`
	ClaimEmail  string `env:"CLAIM_EMAIL"  envDefault:"email"`
	ClaimName   string `env:"CLAIM_NAME"   envDefault:"name"`
	ClaimRole   string `env:"CLAIM_ROLE"   envDefault:"role"`
	ClaimSchool string `env:"CLAIM_SCHOOL"`
	ClaimGrade  string `env:"CLAIM_GRADE"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity collaborator to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"directory"`

	// DefaultSchool is assigned to identities that don't carry one.
	DefaultSchool string `env:"DEFAULT_SCHOOL" envDefault:"SafeGuard Elementary School"`

	// SessionKey is the fixed Redis key the device session record lives
	// under. Leave empty to use the adapter default.
	SessionKey string `env:"SESSION_KEY"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.DevAuth.Latency < 0 {
		a.DevAuth.Latency = 0
	}
}
