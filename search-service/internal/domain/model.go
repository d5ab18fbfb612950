package domain

import (
	"time"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

// BookmarkModel is the GORM model for the bookmarks table.
type BookmarkModel struct {
	ID        string    `gorm:"type:varchar(26);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_bookmarks_user_item"`
	ItemType  string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_bookmarks_user_item"`
	ItemID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_bookmarks_user_item"`
	Title     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for BookmarkModel.
func (BookmarkModel) TableName() string {
	return "bookmarks"
}

// ToDomain converts BookmarkModel to domain Bookmark.
func (m *BookmarkModel) ToDomain() *Bookmark {
	return &Bookmark{
		ID:        m.ID,
		UserID:    m.UserID,
		ItemType:  searchapi.ItemType(m.ItemType),
		ItemID:    m.ItemID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
	}
}

// BookmarkToModel converts domain Bookmark to BookmarkModel.
func BookmarkToModel(b *Bookmark) *BookmarkModel {
	return &BookmarkModel{
		ID:        b.ID,
		UserID:    b.UserID,
		ItemType:  string(b.ItemType),
		ItemID:    b.ItemID,
		Title:     b.Title,
		CreatedAt: b.CreatedAt,
	}
}
