package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// scanWindow is how many top queries are scanned for a prefix match.
const scanWindow = 200

// RedisSuggestionStore keeps popular queries in a sorted set.
type RedisSuggestionStore struct {
	client *redis.Client
	key    string
}

// NewRedisSuggestionStore creates a suggestion store on the sorted set key.
func NewRedisSuggestionStore(client *redis.Client, key string) *RedisSuggestionStore {
	return &RedisSuggestionStore{client: client, key: key}
}

func (s *RedisSuggestionStore) Record(ctx context.Context, query string) error {
	q := NormalizeQuery(query)
	if q == "" {
		return nil
	}
	if err := s.client.ZIncrBy(ctx, s.key, 1, q).Err(); err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

func (s *RedisSuggestionStore) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	p := NormalizeQuery(prefix)
	if p == "" || limit <= 0 {
		return []string{}, nil
	}

	top, err := s.client.ZRevRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "+inf",
		Count: scanWindow,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read popular queries: %w", err)
	}

	out := make([]string, 0, limit)
	for _, q := range top {
		if q == p || !strings.HasPrefix(q, p) {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
