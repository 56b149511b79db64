// Package cache provides a Redis-backed read cache for hot listing queries.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/config"
)

const openProjectsKey = "pbx:projects:open"

// ProjectCache caches the open-project listing. Misses and Redis errors are
// equivalent: the caller falls back to the repository.
type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProjectCache connects to Redis using the given configuration.
func NewProjectCache(cfg *config.RedisConfig, logger *slog.Logger) *ProjectCache {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &ProjectCache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger,
	}
}

// NewProjectCacheWithClient wraps an existing client. Used in tests.
func NewProjectCacheWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProjectCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectCache{client: client, ttl: ttl, logger: logger}
}

// GetOpenProjects returns the cached listing, or (nil, false) on a miss.
func (c *ProjectCache) GetOpenProjects(ctx context.Context) ([]*project.Project, bool) {
	data, err := c.client.Get(ctx, openProjectsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed", "key", openProjectsKey, "error", err)
		}
		return nil, false
	}

	var projects []*project.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt", "key", openProjectsKey, "error", err)
		_ = c.client.Del(ctx, openProjectsKey).Err()
		return nil, false
	}

	return projects, true
}

// SetOpenProjects stores the listing with the configured TTL.
func (c *ProjectCache) SetOpenProjects(ctx context.Context, projects []*project.Project) {
	data, err := json.Marshal(projects)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", openProjectsKey, "error", err)
		return
	}
	if err := c.client.Set(ctx, openProjectsKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", openProjectsKey, "error", err)
	}
}

// InvalidateOpenProjects drops the listing after a project or award mutation.
func (c *ProjectCache) InvalidateOpenProjects(ctx context.Context) {
	if err := c.client.Del(ctx, openProjectsKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "key", openProjectsKey, "error", err)
	}
}

// Close releases the underlying connection pool.
func (c *ProjectCache) Close() error {
	return c.client.Close()
}
