package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"uslugihub/internal/models"
)

// MatchCache stores ranked match lists per request. Misses and backend
// failures are treated the same; matching always works without the cache.
type MatchCache interface {
	Get(ctx context.Context, requestID int) (models.MatchResponse, bool)
	Set(ctx context.Context, requestID int, resp models.MatchResponse)
	Invalidate(ctx context.Context, requestID int)
}

const matchCacheKeyPrefix = "match:req:"

type RedisMatchCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func matchCacheKey(requestID int) string {
	return fmt.Sprintf("%s%d", matchCacheKeyPrefix, requestID)
}

func (c *RedisMatchCache) Get(ctx context.Context, requestID int) (models.MatchResponse, bool) {
	raw, err := c.Client.Get(ctx, matchCacheKey(requestID)).Result()
	if err != nil {
		return models.MatchResponse{}, false
	}
	var resp models.MatchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.MatchResponse{}, false
	}
	return resp, true
}

func (c *RedisMatchCache) Set(ctx context.Context, requestID int, resp models.MatchResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.Client.Set(ctx, matchCacheKey(requestID), data, c.TTL)
}

func (c *RedisMatchCache) Invalidate(ctx context.Context, requestID int) {
	c.Client.Del(ctx, matchCacheKey(requestID))
}

// Sweep walks cached match keys and deletes those for which keep returns
// false. Returns the number of deleted keys.
func (c *RedisMatchCache) Sweep(ctx context.Context, keep func(requestID int) bool) (int, error) {
	deleted := 0
	iter := c.Client.Scan(ctx, 0, matchCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := strconv.Atoi(strings.TrimPrefix(key, matchCacheKeyPrefix))
		if err != nil {
			continue
		}
		if keep(id) {
			continue
		}
		if err := c.Client.Del(ctx, key).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}
