package service

import (
	"context"
	"errors"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

var ErrInvalidItemType = errors.New("invalid item type")

// SearchService defines the interface for search business logic.
type SearchService interface {
	// Search runs the general search across every result category.
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.GeneralResponse, error)
	// SearchCategory searches a single result category.
	SearchCategory(ctx context.Context, category searchapi.Category, req *domain.SearchRequest) (*domain.CategoryResponse, error)
}

// BookmarkService manages the results a user saved.
type BookmarkService interface {
	Add(ctx context.Context, userID string, req *domain.AddBookmarkRequest) (*domain.Bookmark, error)
	List(ctx context.Context, userID string) (*domain.BookmarkList, error)
	Remove(ctx context.Context, userID, itemType, itemID string) error
}
