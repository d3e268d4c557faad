package directory

// Package directory implements the identity collaborator against the local
// Postgres school directory. Passwords are bcrypt-hashed at rest.

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/data"
	"github.com/safeguard-school/safeguard-api/internal/domain/model"
	"github.com/safeguard-school/safeguard-api/internal/ports"
)

// AccountDirectory is the slice of the account repository the provider needs.
type AccountDirectory interface {
	Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

// Config controls directory provider defaults.
type Config struct {
	// DefaultSchool is assigned to registrations that don't specify one.
	DefaultSchool string
}

// Provider implements ports.IdentityProvider backed by AccountDirectory.
type Provider struct {
	accounts AccountDirectory
	cfg      Config
}

// NewProvider constructs a directory-backed identity provider.
func NewProvider(accounts AccountDirectory, cfg Config) *Provider {
	if cfg.DefaultSchool == "" {
		cfg.DefaultSchool = "SafeGuard Elementary School"
	}
	return &Provider{accounts: accounts, cfg: cfg}
}

// Authenticate looks up the account by email and verifies the password.
// Unknown emails and wrong passwords both map to ports.ErrBadCredentials so
// callers cannot probe which emails exist; infrastructure failures map to
// ports.ErrProviderUnavailable.
func (p *Provider) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	acc, err := p.accounts.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			return domainauth.Identity{}, ports.ErrBadCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(creds.Password)); err != nil {
		return domainauth.Identity{}, ports.ErrBadCredentials
	}
	return acc.Identity(), nil
}

// Register inserts a new account and returns its identity. A duplicate
// email is the directory's uniqueness policy rejecting the registration and
// maps to ports.ErrBadCredentials.
func (p *Provider) Register(ctx context.Context, reg domainauth.Registration) (domainauth.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	school := reg.School
	if school == "" {
		school = p.cfg.DefaultSchool
	}
	req := &model.CreateAccountRequest{
		Email:        reg.Email,
		Name:         reg.Name,
		Role:         reg.Role,
		School:       &school,
		PasswordHash: hash,
	}
	if reg.Grade != "" {
		grade := reg.Grade
		req.Grade = &grade
	}

	acc, err := p.accounts.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrBadCredentials, err)
		}
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}
	return acc.Identity(), nil
}
