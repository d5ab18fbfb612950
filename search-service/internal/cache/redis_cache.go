package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/config"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisSearchCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisSearchCache creates a new Redis-based search cache on client.
func NewRedisSearchCache(client *redis.Client, prefix string) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		prefix: prefix,
	}
}

// BuildKey creates a cache key from search parameters. The query is
// normalized so that case and spacing variants share an entry.
func (c *RedisSearchCache) BuildKey(category, query, filter string, page, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d", c.prefix, category, NormalizeQuery(query), strings.ToLower(filter), page, limit)
}

func (c *RedisSearchCache) Get(ctx context.Context, key string) (*domain.CategoryResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result domain.CategoryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &result, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, key string, result *domain.CategoryResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisSearchCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}

	return nil
}

func (c *RedisSearchCache) Close() error {
	return c.client.Close()
}

// NormalizeQuery lowercases q and collapses whitespace.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
