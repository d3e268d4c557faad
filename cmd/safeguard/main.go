package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/safeguard-school/safeguard-api/config"
	"github.com/safeguard-school/safeguard-api/internal/bootstrap"
	httpx "github.com/safeguard-school/safeguard-api/internal/http"
	"github.com/safeguard-school/safeguard-api/internal/migrate"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting safeguard service",
		"auth_mode", cfg.Auth.Mode,
		"http_addr", cfg.HTTP.Addr)

	db, redisClient, err := initInfrastructure(&cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}()
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	if db != nil && cfg.Postgres.RunMigrationsOnStart {
		if err = migrate.Run(ctx, db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	core, err := bootstrap.BuildSessionCore(ctx, &bootstrap.SessionCoreDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build session core: %w", err)
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:   core.Auth,
		Nav:    core.Nav,
		Logger: logger,
	})

	return bootstrap.RunServer(ctx, bootstrap.ServerConfig{
		HTTP:    cfg.HTTP,
		Handler: router,
		Logger:  logger,
	})
}

// initInfrastructure connects shared dependencies. The database is only
// needed by the directory auth mode; Redis always holds the session record.
func initInfrastructure(cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, *redis.Client, error) {
	var db *sql.DB
	if cfg.Auth.Mode == config.AuthModeDirectory {
		var err error
		if db, err = bootstrap.ConnectDB(cfg.Postgres); err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		logger.Info("database connected", "host", cfg.Postgres.Host, "name", cfg.Postgres.Name)
	}

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return db, redisClient, nil
}
