package cache

import (
	"time"

	"github.com/quotedesk/backend/internal/domain/receivable"
	"github.com/quotedesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewReceivableCache picks the Redis cache when Redis is enabled and
// reachable, and the in-memory cache otherwise. The returned client is nil
// when no Redis connection was opened.
func NewReceivableCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (receivable.Cache, *redis.Client) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory receivable cache")
		return NewInMemoryReceivableCache(ttl), nil
	}
	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory receivable cache. "+
			"Instances will not share cached payment status.",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryReceivableCache(ttl), nil
	}
	logger.Info("Using Redis receivable cache", zap.String("addr", cfg.Addr()), zap.Duration("ttl", ttl))
	return NewRedisReceivableCache(client, ttl), client
}
