package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmotion/repairshop-api/models"
)

const (
	shopListKeyPrefix = "shops:list:"
	invalidateBatch   = 100
)

// ShopCache caches the public shop listing per query
type ShopCache interface {
	GetShops(ctx context.Context, key string) ([]models.Shop, bool, error)
	SetShops(ctx context.Context, key string, shops []models.Shop) error
	// Invalidate drops every cached listing
	Invalidate(ctx context.Context) error
}

// ShopListKey normalizes the listing filters into a cache key
func ShopListKey(query, city string) string {
	return strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToLower(strings.TrimSpace(city))
}

var shopCacheInstance ShopCache = NoopShopCache{}

// GetShopCache returns the configured shop cache
func GetShopCache() ShopCache {
	return shopCacheInstance
}

// SetShopCache sets the shop cache instance
func SetShopCache(cache ShopCache) {
	shopCacheInstance = cache
}

// RedisShopCache keeps every listing under its own shops:list:<key> entry
// with its own TTL
type RedisShopCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedisShopCache connects to the redis at addr
func NewRedisShopCache(addr string, ttl time.Duration) *RedisShopCache {
	return &RedisShopCache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		ttl: ttl,
	}
}

func (r *RedisShopCache) GetShops(ctx context.Context, key string) ([]models.Shop, bool, error) {
	val, err := r.c.Get(ctx, shopListKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}

	var shops []models.Shop
	if err := json.Unmarshal(val, &shops); err != nil {
		return nil, false, errors.Wrap(err, "decode cached shops")
	}
	return shops, true, nil
}

func (r *RedisShopCache) SetShops(ctx context.Context, key string, shops []models.Shop) error {
	value, err := json.Marshal(shops)
	if err != nil {
		return errors.Wrap(err, "encode shops")
	}

	if err := r.c.Set(ctx, shopListKeyPrefix+key, value, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisShopCache) Invalidate(ctx context.Context) error {
	iter := r.c.Scan(ctx, 0, shopListKeyPrefix+"*", invalidateBatch).Iterator()
	keys := make([]string, 0, invalidateBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == invalidateBatch {
			if err := r.c.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "redis del")
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}
	if len(keys) > 0 {
		if err := r.c.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, "redis del")
		}
	}
	return nil
}

func (r *RedisShopCache) Close() error {
	return r.c.Close()
}

// NoopShopCache never stores anything
type NoopShopCache struct{}

func (NoopShopCache) GetShops(ctx context.Context, key string) ([]models.Shop, bool, error) {
	return nil, false, nil
}

func (NoopShopCache) SetShops(ctx context.Context, key string, shops []models.Shop) error {
	return nil
}

func (NoopShopCache) Invalidate(ctx context.Context) error { return nil }
