package libs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a thin JSON layer over redis. A Cache with no client (or a nil
// *Cache) is valid and behaves as an always-empty cache.
type Cache struct {
	client *redis.Client
}

func NewCache(redisURL, addr, password string) *Cache {
	var opt *redis.Options
	if redisURL != "" {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to parse redis url, running without cache")
			return &Cache{}
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis connection failed, running without cache")
		_ = client.Close()
		return &Cache{}
	}

	log.Info().Str("addr", opt.Addr).Msg("redis connected")
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads key into dst and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache decode failed")
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
	}
}

func (c *Cache) Close() {
	if c.Enabled() {
		_ = c.client.Close()
	}
}
