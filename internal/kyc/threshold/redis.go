package threshold

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSource serves overrides kept in one Redis hash (field = override key).
// Requests read an in-memory snapshot; Run refreshes it in the background so a
// Redis outage never reaches the request path.
type RedisSource struct {
	snapshot
	client   redis.Cmdable
	hashKey  string
	interval time.Duration
	logger   *slog.Logger
}

// NewRedisSource creates the source with an empty snapshot; call Refresh or Run.
func NewRedisSource(client redis.Cmdable, hashKey string, interval time.Duration, logger *slog.Logger) *RedisSource {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &RedisSource{
		snapshot: snapshot{values: MapSource{}},
		client:   client,
		hashKey:  hashKey,
		interval: interval,
		logger:   logger,
	}
}

// Refresh replaces the snapshot with the current hash contents. On error the
// previous snapshot stays in place.
func (rs *RedisSource) Refresh(ctx context.Context) error {
	values, err := rs.client.HGetAll(ctx, rs.hashKey).Result()
	if err != nil {
		return fmt.Errorf("load threshold overrides from redis hash %s: %w", rs.hashKey, err)
	}
	rs.swap(NewMapSource(values))
	return nil
}

// Run refreshes on every tick until ctx is cancelled.
func (rs *RedisSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := rs.Refresh(ctx); err != nil && rs.logger != nil {
				rs.logger.WarnContext(ctx, "threshold override refresh failed",
					"hash", rs.hashKey,
					"error", err,
				)
			}
		}
	}
}
