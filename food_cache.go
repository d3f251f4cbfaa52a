package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const foodSearchTTL = 10 * time.Minute

// foodCache caches food search results. The food database only changes when
// cmd/seed-foods runs, so a short TTL is enough.
type foodCache interface {
	getSearch(ctx context.Context, query string, limit int) ([]food, bool)
	setSearch(ctx context.Context, query string, limit int, foods []food)
}

type redisFoodCache struct {
	client *redis.Client
}

func newRedisFoodCache(ctx context.Context, redisURL string) (*redisFoodCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &redisFoodCache{client: client}, nil
}

func (r *redisFoodCache) Close() error {
	return r.client.Close()
}

func searchCacheKey(query string, limit int) string {
	return fmt.Sprintf("foods:search:%d:%s", limit, strings.ToLower(query))
}

// getSearch returns ok=false on a miss. Redis errors are logged and treated as misses.
func (r *redisFoodCache) getSearch(ctx context.Context, query string, limit int) ([]food, bool) {
	data, err := r.client.Get(ctx, searchCacheKey(query, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[foodCache] get error: %v", err)
		}
		return nil, false
	}
	var foods []food
	if err := json.Unmarshal(data, &foods); err != nil {
		log.Printf("[foodCache] decode error: %v", err)
		return nil, false
	}
	return foods, true
}

func (r *redisFoodCache) setSearch(ctx context.Context, query string, limit int, foods []food) {
	data, err := json.Marshal(foods)
	if err != nil {
		log.Printf("[foodCache] encode error: %v", err)
		return
	}
	if err := r.client.Set(ctx, searchCacheKey(query, limit), data, foodSearchTTL).Err(); err != nil {
		log.Printf("[foodCache] set error: %v", err)
	}
}
