// Package bootstrap wires the runtime dependencies shared by the binaries.
package bootstrap

import (
	"fmt"
	"log/slog"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedGroups bool
}

// InitRuntime connects to the database and Redis and optionally upserts
// the built-in groups. The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	if opts.SeedGroups {
		if err := SeedGroups(db); err != nil {
			return nil, nil, err
		}
	}

	return db, cache.GetClient(), nil
}

// SeedGroups upserts the groups embedded in the binary.
func SeedGroups(db *gorm.DB) error {
	groups, err := seed.Groups(db, seed.BuiltInGroups())
	if err != nil {
		return fmt.Errorf("failed to seed built-in groups: %w", err)
	}
	middleware.Logger.Info("Built-in groups ready", slog.Int("count", len(groups)))
	return nil
}
