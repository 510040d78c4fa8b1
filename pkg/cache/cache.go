package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache 基于 Redis 的 JSON 缓存。
// 零值或 nil 客户端时所有操作均为 no-op，读取总是未命中。
type Cache struct {
	Redis  *redis.Client
	Prefix string
}

func New(rdb *redis.Client, prefix string) *Cache {
	return &Cache{Redis: rdb, Prefix: prefix}
}

func (c *Cache) enabled() bool {
	return c != nil && c.Redis != nil
}

func (c *Cache) key(k string) string {
	return c.Prefix + k
}

// Get 读取并反序列化缓存值，返回是否命中
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	val, err := c.Redis.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, c.key(key), b, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.Redis.Del(ctx, full...).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.Redis.Ping(ctx).Err()
}
