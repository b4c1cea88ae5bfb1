package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const snapshotTTL = 5 * time.Minute

// SnapshotCache holds assembled snapshots between writes. Cache errors are
// never returned to callers; a miss falls through to the database.
type SnapshotCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*AchievementSnapshot, bool)
	Set(ctx context.Context, snapshot *AchievementSnapshot)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSnapshotCache(client *redis.Client, logger *zap.Logger) SnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisSnapshotCache{
		client: client,
		ttl:    snapshotTTL,
		logger: logger,
	}
}

func snapshotKey(userID uuid.UUID) string {
	return fmt.Sprintf("achievements:%s", userID)
}

func (c *redisSnapshotCache) Get(ctx context.Context, userID uuid.UUID) (*AchievementSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read achievement cache", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return nil, false
	}
	var snapshot AchievementSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn("Discarding unreadable achievement cache entry", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

func (c *redisSnapshotCache) Set(ctx context.Context, snapshot *AchievementSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey(snapshot.UserID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache achievements", zap.String("user_id", snapshot.UserID.String()), zap.Error(err))
	}
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate achievement cache", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
