package cache

import (
	"context"
	"time"

	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

// SearchCache defines the interface for caching search results.
type SearchCache interface {
	BuildKey(category, query, filter string, page, limit int) string
	Get(ctx context.Context, key string) (*domain.CategoryResult, error)
	Set(ctx context.Context, key string, result *domain.CategoryResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SuggestionStore ranks past queries by popularity.
type SuggestionStore interface {
	// Record bumps the popularity of query.
	Record(ctx context.Context, query string) error
	// Suggest returns up to limit popular queries starting with prefix,
	// most popular first, excluding prefix itself.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}
