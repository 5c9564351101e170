package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightprofit/config"
	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func NewRedisCache(client *redis.Client, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		catalogTTL: catalogTTL,
	}
}

// GetAirports returns nil, nil on a cache miss.
func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	var airports []domain.Airport
	ok, err := c.get(ctx, airportsKey(), &airports)
	if err != nil || !ok {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	return c.set(ctx, airportsKey(), airports)
}

// GetAircraft returns nil, nil on a cache miss.
func (c *RedisCache) GetAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	var aircraft []domain.Aircraft
	ok, err := c.get(ctx, aircraftKey(), &aircraft)
	if err != nil || !ok {
		return nil, err
	}
	return aircraft, nil
}

func (c *RedisCache) SetAircraft(ctx context.Context, aircraft []domain.Aircraft) error {
	return c.set(ctx, aircraftKey(), aircraft)
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.catalogTTL).Err()
}

func airportsKey() string {
	return "cache:catalog:airports"
}

func aircraftKey() string {
	return "cache:catalog:aircraft"
}
