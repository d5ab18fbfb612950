package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Bookmark is a search result saved by the current user.
type Bookmark struct {
	ID        string    `json:"id"`
	ItemType  ItemType  `json:"item_type"`
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Key matches Item.Key of the bookmarked item.
func (b Bookmark) Key() string {
	return string(b.ItemType) + ":" + b.ItemID
}

type addBookmarkRequest struct {
	ItemType ItemType `json:"item_type"`
	ItemID   string   `json:"item_id"`
	Title    string   `json:"title"`
}

// ListBookmarks returns the bookmarks of the token's user, newest first.
func (c *Client) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	data, err := c.send(ctx, http.MethodGet, pathBookmarks, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Bookmarks []Bookmark `json:"bookmarks"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out.Bookmarks, nil
}

// AddBookmark saves item for the token's user.
func (c *Client) AddBookmark(ctx context.Context, item Item) (*Bookmark, error) {
	data, err := c.send(ctx, http.MethodPost, pathBookmarks, addBookmarkRequest{
		ItemType: item.Type,
		ItemID:   item.ID,
		Title:    item.Title,
	})
	if err != nil {
		return nil, err
	}
	var b Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &b, nil
}

// RemoveBookmark deletes the bookmark on the given item.
func (c *Client) RemoveBookmark(ctx context.Context, t ItemType, id string) error {
	path := pathBookmarks + "/" + url.PathEscape(string(t)) + "/" + url.PathEscape(id)
	_, err := c.send(ctx, http.MethodDelete, path, nil)
	return err
}
