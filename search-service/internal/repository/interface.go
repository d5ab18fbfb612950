package repository

import (
	"context"
	"errors"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

var (
	ErrUnknownCategory  = errors.New("unknown search category")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrBookmarkExists   = errors.New("bookmark already exists")
)

// SearchRepository defines the interface for search operations against Elasticsearch.
type SearchRepository interface {
	// Search returns one page of hits from the index backing category.
	// filter narrows author searches by genre and is ignored elsewhere.
	Search(ctx context.Context, category searchapi.Category, query, filter string, offset, limit int) (*domain.CategoryResult, error)
}

// BookmarkRepository defines persistence for user bookmarks.
type BookmarkRepository interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	ListByUser(ctx context.Context, userID string) ([]domain.Bookmark, error)
	Delete(ctx context.Context, userID string, itemType searchapi.ItemType, itemID string) error
}
