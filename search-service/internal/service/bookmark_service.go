package service

import (
	"context"
	"strings"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/audit"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/repository"
)

type bookmarkServiceImpl struct {
	repo repository.BookmarkRepository
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(repo repository.BookmarkRepository) BookmarkService {
	return &bookmarkServiceImpl{repo: repo}
}

func parseItemType(s string) (searchapi.ItemType, error) {
	t := searchapi.ItemType(strings.ToLower(strings.TrimSpace(s)))
	if t.Category() == "" {
		return "", ErrInvalidItemType
	}
	return t, nil
}

func (s *bookmarkServiceImpl) Add(ctx context.Context, userID string, req *domain.AddBookmarkRequest) (*domain.Bookmark, error) {
	itemType, err := parseItemType(req.ItemType)
	if err != nil {
		return nil, err
	}

	b := &domain.Bookmark{
		UserID:   userID,
		ItemType: itemType,
		ItemID:   strings.TrimSpace(req.ItemID),
		Title:    req.Title,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionAddBookmark, userID, string(itemType), b.ItemID, "bookmark added")
	return b, nil
}

func (s *bookmarkServiceImpl) List(ctx context.Context, userID string) (*domain.BookmarkList, error) {
	bookmarks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldUserID, userID).Int(log.FieldResults, len(bookmarks)).Msg("bookmarks listed")
	return &domain.BookmarkList{Bookmarks: bookmarks}, nil
}

func (s *bookmarkServiceImpl) Remove(ctx context.Context, userID, itemType, itemID string) error {
	t, err := parseItemType(itemType)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, t, itemID); err != nil {
		return err
	}

	audit.Log(ctx, audit.ActionRemoveBookmark, userID, string(t), itemID, "bookmark removed")
	return nil
}
