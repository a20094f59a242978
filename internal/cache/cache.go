// Package cache is an optional Redis-backed cache for generated-recipe
// responses. The same mood + ingredients asked twice within the TTL skips a
// round trip to the model. The service runs fine with no Redis configured;
// a nil *RecipeCache is a valid always-miss cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/purechef/purechef/internal/domain/recipe"
)

const keyPrefix = "purechef:recipes:"

type RecipeCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRecipeCache(ctx context.Context, addr, password string, ttl time.Duration, log *slog.Logger) (*RecipeCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &RecipeCache{rdb: rdb, ttl: ttl, log: log}, nil
}

func (c *RecipeCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key derives a stable cache key from the request inputs.
func Key(mood, ingredients string) string {
	sum := sha256.Sum256([]byte(mood + "\x00" + ingredients))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached batch and whether it was present. Cache failures
// are logged and reported as misses, never as errors.
func (c *RecipeCache) Get(ctx context.Context, key string) ([]recipe.Generated, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()

	if err != nil {
		if err != redis.Nil {
			c.log.Warn("recipe cache get failed", "err", err)
		}
		return nil, false
	}

	var recipes []recipe.Generated
	if err := json.Unmarshal(raw, &recipes); err != nil {
		c.log.Warn("recipe cache entry corrupt", "err", err)
		return nil, false
	}

	return recipes, true
}

// Set stores the batch best-effort.
func (c *RecipeCache) Set(ctx context.Context, key string, recipes []recipe.Generated) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(recipes)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("recipe cache set failed", "err", err)
	}
}
