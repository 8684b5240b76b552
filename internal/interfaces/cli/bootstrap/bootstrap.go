// Package bootstrap holds the start-up steps shared by the CLI commands.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicpulse/civicpulse/internal/infrastructure/config"
	"github.com/civicpulse/civicpulse/internal/infrastructure/database"
	"github.com/civicpulse/civicpulse/internal/shared/biztime"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

const redisPingTimeout = 3 * time.Second

// Env is the environment every command shares.
type Env struct {
	Config *config.Config
	Log    logger.Interface
}

// Load reads the configuration and initializes the logger and the business
// timezone.
func Load(env, configPath string) (*Env, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return &Env{Config: cfg, Log: logger.NewLogger()}, nil
}

// LoadWithDatabase is Load followed by database.Init. Callers own the
// database.Close.
func LoadWithDatabase(env, configPath string) (*Env, error) {
	e, err := Load(env, configPath)
	if err != nil {
		return nil, err
	}
	if err := database.Init(&e.Config.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return e, nil
}

// OpenRedis connects to Redis. It returns nil when no host is configured.
// An unreachable server is logged and the client is still returned; the
// rate limiter lets requests through until it comes back.
func (e *Env) OpenRedis() redis.UniversalClient {
	if e.Config.Redis.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     e.Config.Redis.GetAddr(),
		Password: e.Config.Redis.Password,
		DB:       e.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		e.Log.Warnw("failed to connect to Redis, rate limiting degraded", "addr", e.Config.Redis.GetAddr(), "error", err)
		return client
	}
	e.Log.Infow("Redis connection established successfully")
	return client
}
