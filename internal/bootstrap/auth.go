package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/safeguard-school/safeguard-api/config"
	"github.com/safeguard-school/safeguard-api/internal/adapters/devauth"
	"github.com/safeguard-school/safeguard-api/internal/adapters/directory"
	"github.com/safeguard-school/safeguard-api/internal/adapters/redisstore"
	"github.com/safeguard-school/safeguard-api/internal/adapters/ropc"
	"github.com/safeguard-school/safeguard-api/internal/data"
	"github.com/safeguard-school/safeguard-api/internal/ports"
	"github.com/safeguard-school/safeguard-api/internal/service"
)

// SessionCoreDeps contains the infrastructure the session core is built on.
type SessionCoreDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// SessionCore bundles the constructed auth manager and navigation
// controller, already wired together.
type SessionCore struct {
	Auth *service.AuthManager
	Nav  *service.NavigationController
}

// BuildSessionCore creates the identity provider for the configured auth
// mode, the Redis session store, and the auth/navigation pair on top of
// them. The manager's initial state is loaded synchronously from the store.
func BuildSessionCore(ctx context.Context, deps *SessionCoreDeps) (*SessionCore, error) {
	provider, err := buildProvider(deps)
	if err != nil {
		return nil, err
	}

	store := buildSessionStore(deps)

	mgr := service.NewAuthManager(ctx, service.AuthManagerOptions{
		Provider: provider,
		Store:    store,
		Logger:   deps.Logger,
	})
	nav := service.NewNavigationController(mgr)

	return &SessionCore{Auth: mgr, Nav: nav}, nil
}

func buildSessionStore(deps *SessionCoreDeps) ports.SessionStore {
	if key := deps.Config.Auth.SessionKey; key != "" {
		return redisstore.NewSessionStoreWithKey(deps.RedisClient, key)
	}
	return redisstore.NewSessionStore(deps.RedisClient)
}

func buildProvider(deps *SessionCoreDeps) (ports.IdentityProvider, error) {
	authCfg := deps.Config.Auth

	switch authCfg.Mode {
	case config.AuthModeMock:
		return devauth.NewProvider(devauth.Config{
			AdminEmail:    authCfg.DevAuth.AdminEmail,
			DefaultSchool: authCfg.DefaultSchool,
			Latency:       authCfg.DevAuth.Latency,
		}), nil

	case config.AuthModeDirectory:
		if deps.DB == nil {
			return nil, fmt.Errorf("auth mode %q requires a database", authCfg.Mode)
		}
		return directory.NewProvider(data.NewAccountRepo(deps.DB), directory.Config{
			DefaultSchool: authCfg.DefaultSchool,
		}), nil

	case config.AuthModeOAuth:
		oauth := authCfg.OAuth
		prov, err := ropc.NewProvider(ropc.Config{
			TokenURL:     oauth.TokenURL,
			UserInfoURL:  oauth.UserInfoURL,
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			Claims: ropc.ClaimMap{
				ID:     oauth.ClaimID,
				Email:  oauth.ClaimEmail,
				Name:   oauth.ClaimName,
				Role:   oauth.ClaimRole,
				School: oauth.ClaimSchool,
				Grade:  oauth.ClaimGrade,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("build oauth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", authCfg.Mode)
	}
}
