package ropc

// Package ropc implements the identity collaborator against a central IdP
// using the OAuth2 resource-owner-password-credentials grant. The userinfo
// response is mapped onto the Identity shape with configurable JMESPath
// expressions, so the adapter works across districts with different claim
// layouts.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/ports"
)

// ClaimMap holds JMESPath expressions resolving Identity fields from the
// userinfo document. ID, Email and Name are required; the rest may be empty.
type ClaimMap struct {
	ID     string
	Email  string
	Name   string
	Role   string
	School string
	Grade  string
}

// Config controls the ROPC provider.
type Config struct {
	TokenURL     string
	UserInfoURL  string
	ClientID     string
	ClientSecret string
	Claims       ClaimMap
}

// Provider implements ports.IdentityProvider via the password grant.
// Registration is not offered by central IdPs and is rejected.
type Provider struct {
	oauth    oauth2.Config
	userInfo string
	claims   compiledClaims
}

type compiledClaims struct {
	id     jmespath.JMESPath
	email  jmespath.JMESPath
	name   jmespath.JMESPath
	role   jmespath.JMESPath
	school jmespath.JMESPath
	grade  jmespath.JMESPath
}

// NewProvider validates the config and compiles the claim expressions.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, errors.New("ropc: TokenURL and UserInfoURL are required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("ropc: ClientID is required")
	}

	claims, err := compileClaims(cfg.Claims)
	if err != nil {
		return nil, err
	}

	return &Provider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		},
		userInfo: cfg.UserInfoURL,
		claims:   claims,
	}, nil
}

func compileClaims(m ClaimMap) (compiledClaims, error) {
	var c compiledClaims
	var err error

	compile := func(name, expr string, required bool) jmespath.JMESPath {
		if err != nil {
			return nil
		}
		if expr == "" {
			if required {
				err = fmt.Errorf("ropc: claim expression %s is required", name)
			}
			return nil
		}
		var jp jmespath.JMESPath
		if jp, err = jmespath.Compile(expr); err != nil {
			err = fmt.Errorf("ropc: compile claim %s: %w", name, err)
		}
		return jp
	}

	c.id = compile("id", m.ID, true)
	c.email = compile("email", m.Email, true)
	c.name = compile("name", m.Name, true)
	c.role = compile("role", m.Role, false)
	c.school = compile("school", m.School, false)
	c.grade = compile("grade", m.Grade, false)
	return c, err
}

// Authenticate exchanges the credentials for a token and resolves the
// userinfo document into an Identity. A token endpoint rejection maps to
// ports.ErrBadCredentials; transport failures to ports.ErrProviderUnavailable.
func (p *Provider) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	tok, err := p.oauth.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrBadCredentials, err)
		}
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}

	doc, err := p.fetchUserInfo(ctx, tok)
	if err != nil {
		return domainauth.Identity{}, err
	}
	return p.mapIdentity(doc)
}

// Register is not supported by a central IdP; the collaborator's policy is
// to reject it.
func (p *Provider) Register(_ context.Context, _ domainauth.Registration) (domainauth.Identity, error) {
	return domainauth.Identity{}, fmt.Errorf("%w: identity provider does not accept registrations", ports.ErrBadCredentials)
}

func (p *Provider) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (any, error) {
	client := p.oauth.Client(ctx, tok)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %d", ports.ErrProviderUnavailable, resp.StatusCode)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %w", ports.ErrProviderUnavailable, err)
	}
	return doc, nil
}

func (p *Provider) mapIdentity(doc any) (domainauth.Identity, error) {
	id := domainauth.Identity{
		ID:     searchString(p.claims.id, doc),
		Email:  searchString(p.claims.email, doc),
		Name:   searchString(p.claims.name, doc),
		School: searchString(p.claims.school, doc),
		Grade:  searchString(p.claims.grade, doc),
	}
	if id.ID == "" || id.Email == "" {
		return domainauth.Identity{}, fmt.Errorf("%w: userinfo missing id or email claim", ports.ErrProviderUnavailable)
	}

	// Anything but an explicit admin claim is a student.
	id.Role = domainauth.RoleStudent
	if domainauth.Role(searchString(p.claims.role, doc)) == domainauth.RoleAdmin {
		id.Role = domainauth.RoleAdmin
	}
	return id, nil
}

func searchString(jp jmespath.JMESPath, doc any) string {
	if jp == nil {
		return ""
	}
	v, err := jp.Search(doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
