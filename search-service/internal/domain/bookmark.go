package domain

import (
	"time"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

// Bookmark is a search result saved by a user.
type Bookmark struct {
	ID        string             `json:"id"`
	UserID    string             `json:"-"`
	ItemType  searchapi.ItemType `json:"item_type"`
	ItemID    string             `json:"item_id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
}

// AddBookmarkRequest is the body of POST /bookmarks.
type AddBookmarkRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	ItemID   string `json:"item_id" binding:"required"`
	Title    string `json:"title"`
}

// BookmarkList is the payload of GET /bookmarks.
type BookmarkList struct {
	Bookmarks []Bookmark `json:"bookmarks"`
}
