package devauth

// Package devauth provides a simple, config-driven identity collaborator
// for local development. It accepts any password and answers after a
// configurable artificial latency, standing in for a real directory call.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
)

// Config controls the dev identity provider behavior.
type Config struct {
	// AdminEmail signs in as the built-in admin identity; every other
	// email signs in as the built-in student.
	AdminEmail string

	// DefaultSchool is assigned to identities that don't specify one.
	DefaultSchool string

	// Latency is the simulated network delay per call. Zero means no delay.
	Latency time.Duration
}

// Provider implements ports.IdentityProvider for local development.
type Provider struct {
	cfg Config
}

// NewProvider constructs a dev identity provider from Config.
func NewProvider(cfg Config) *Provider {
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@safeguard.edu"
	}
	if cfg.DefaultSchool == "" {
		cfg.DefaultSchool = "SafeGuard Elementary School"
	}
	return &Provider{cfg: cfg}
}

// Authenticate accepts any credentials after the configured latency.
// The admin email yields the built-in admin identity; everything else
// yields the built-in student.
func (p *Provider) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if err := p.wait(ctx); err != nil {
		return domainauth.Identity{}, err
	}

	if creds.Email == p.cfg.AdminEmail {
		return domainauth.Identity{
			ID:     "1",
			Email:  creds.Email,
			Name:   "Dr. Sarah Johnson",
			Role:   domainauth.RoleAdmin,
			School: p.cfg.DefaultSchool,
		}, nil
	}
	return domainauth.Identity{
		ID:     "1",
		Email:  creds.Email,
		Name:   "Alex Thompson",
		Role:   domainauth.RoleStudent,
		School: p.cfg.DefaultSchool,
		Grade:  "Grade 5",
	}, nil
}

// Register assigns a fresh id and echoes the registration back as the
// confirmed identity, defaulting the school when unset.
func (p *Provider) Register(ctx context.Context, reg domainauth.Registration) (domainauth.Identity, error) {
	if err := p.wait(ctx); err != nil {
		return domainauth.Identity{}, err
	}

	school := reg.School
	if school == "" {
		school = p.cfg.DefaultSchool
	}
	return domainauth.Identity{
		ID:     uuid.NewString(),
		Email:  reg.Email,
		Name:   reg.Name,
		Role:   reg.Role,
		School: school,
		Grade:  reg.Grade,
	}, nil
}

// wait sleeps for the configured latency, honoring context cancellation.
// A cancelled wait reads as an unreachable collaborator, like any timeout.
func (p *Provider) wait(ctx context.Context) error {
	if p.cfg.Latency <= 0 {
		return nil
	}
	t := time.NewTimer(p.cfg.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, ctx.Err())
	}
}
