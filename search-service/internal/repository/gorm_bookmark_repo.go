package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

// GormBookmarkRepository implements BookmarkRepository using GORM.
type GormBookmarkRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormBookmarkRepository creates a new GORM-based bookmark repository.
func NewGormBookmarkRepository(db *gorm.DB) *GormBookmarkRepository {
	return &GormBookmarkRepository{db: db, now: time.Now}
}

// Create stores a new bookmark and fills in its ID and creation time.
func (r *GormBookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	l := log.Ctx(ctx)

	var existing int64
	if err := r.db.WithContext(ctx).Model(&domain.BookmarkModel{}).
		Where("user_id = ? AND item_type = ? AND item_id = ?", b.UserID, string(b.ItemType), b.ItemID).
		Count(&existing).Error; err != nil {
		l.Error().Err(err).Msg("failed to check existing bookmark")
		return err
	}
	if existing > 0 {
		return ErrBookmarkExists
	}

	now := r.now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return err
	}
	b.ID = id.String()
	b.CreatedAt = now

	model := domain.BookmarkToModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBookmarkExists
		}
		l.Error().Err(err).Msg("failed to create bookmark in db")
		return err
	}

	l.Debug().Str("bookmark_id", b.ID).Msg("bookmark created in db")
	return nil
}

// ListByUser returns the bookmarks of userID, newest first.
func (r *GormBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	l := log.Ctx(ctx)

	var models []domain.BookmarkModel
	// ULIDs sort by creation time.
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&models).Error; err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list bookmarks")
		return nil, err
	}

	bookmarks := make([]domain.Bookmark, len(models))
	for i, model := range models {
		bookmarks[i] = *model.ToDomain()
	}
	return bookmarks, nil
}

// Delete removes the bookmark of userID on the given item.
func (r *GormBookmarkRepository) Delete(ctx context.Context, userID string, itemType searchapi.ItemType, itemID string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, string(itemType), itemID).
		Delete(&domain.BookmarkModel{})
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to delete bookmark")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}
