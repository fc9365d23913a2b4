package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BrowsingCache stores per-session browsing history and the shared trending
// item list. Both survive restarts only as long as Redis does, which is fine
// for analytics-grade data.
type BrowsingCache struct {
	client *redis.Client
}

// NewBrowsingCache returns a cache backed by the global Redis client
func NewBrowsingCache() *BrowsingCache {
	return &BrowsingCache{client: client}
}

const (
	recentlyViewedTTL = 7 * 24 * time.Hour
	trendingKey       = "homepage:trending"
)

func recentlyViewedKey(sessionID string) string {
	return fmt.Sprintf("session:%s:viewed", sessionID)
}

// TrackItemView pushes an item onto the front of a session's viewed list,
// de-duplicating and capping the list length
func (c *BrowsingCache) TrackItemView(ctx context.Context, sessionID string, itemID uint, limit int) error {
	key := recentlyViewedKey(sessionID)
	member := strconv.FormatUint(uint64(itemID), 10)

	pipe := c.client.TxPipeline()
	pipe.LRem(ctx, key, 0, member)
	pipe.LPush(ctx, key, member)
	pipe.LTrim(ctx, key, 0, int64(limit-1))
	pipe.Expire(ctx, key, recentlyViewedTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to track item view in Redis", err, map[string]interface{}{
			"session_id": sessionID,
			"item_id":    itemID,
		})
		return err
	}
	return nil
}

// RecentlyViewed returns the session's viewed item IDs, most recent first
func (c *BrowsingCache) RecentlyViewed(ctx context.Context, sessionID string, limit int) ([]uint, error) {
	values, err := c.client.LRange(ctx, recentlyViewedKey(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		logger.Error("Failed to read recently viewed items from Redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// SetTrending replaces the cached trending item ID list
func (c *BrowsingCache) SetTrending(ctx context.Context, itemIDs []uint, ttl time.Duration) error {
	members := make([]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		members = append(members, strconv.FormatUint(uint64(id), 10))
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, trendingKey)
	if len(members) > 0 {
		pipe.RPush(ctx, trendingKey, members...)
		pipe.Expire(ctx, trendingKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to cache trending items in Redis", err, nil)
		return err
	}
	return nil
}

// Trending returns the cached trending item IDs, or an empty slice when the
// cache is cold
func (c *BrowsingCache) Trending(ctx context.Context) ([]uint, error) {
	values, err := c.client.LRange(ctx, trendingKey, 0, -1).Result()
	if err != nil {
		logger.Error("Failed to read trending items from Redis", err, nil)
		return nil, err
	}

	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
