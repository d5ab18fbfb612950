package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func TestClient_SearchRoutesByCategory(t *testing.T) {
	tests := []struct {
		category Category
		path     string
	}{
		{CategoryAll, "/api/v1/search"},
		{CategoryUsers, "/api/v1/search/users"},
		{CategoryBooks, "/api/v1/search/books"},
		{CategoryClubs, "/api/v1/search/clubs"},
		{CategoryBookLists, "/api/v1/search/book_lists"},
		{CategoryAuthors, "/api/v1/search/authors"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			var gotPath, gotQuery string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query().Get("q") + "|" + r.URL.Query().Get("page") + "|" + r.URL.Query().Get("limit")
				io.WriteString(w, `{"status":"success","data":{}}`)
			})

			page, err := c.Search(context.Background(), Params{Query: "harry", Page: 2, Limit: 20, Category: tt.category})
			require.NoError(t, err)
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, "harry|2|20", gotQuery)
			assert.Equal(t, tt.category, page.Category)
			assert.True(t, page.Success)
			assert.Empty(t, page.Items)
		})
	}
}

func TestClient_AuthorsFilter(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("category")
		io.WriteString(w, `{"status":"success","data":{"authors":[{"id":"a1","name":"Tolkien"}]}}`)
	})

	page, err := c.SearchAuthors(context.Background(), Params{Query: "t", Filter: "fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "fantasy", got)
	require.Len(t, page.Items, 1)
	assert.Equal(t, TypeAuthor, page.Items[0].Type)
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"error","message":"nothing"}`)
	})

	page, err := c.SearchBooks(context.Background(), Params{Query: "zzz"})
	require.NoError(t, err)
	assert.False(t, page.Success)
	assert.True(t, page.Empty())
}

func TestClient_EmptySuccessIsEmptyPage(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no content", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }},
		{"null data", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"success","data":null}`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			page, err := c.SearchGeneral(context.Background(), Params{Query: "zzz"})
			require.NoError(t, err)
			assert.True(t, page.Success)
			assert.Equal(t, CategoryAll, page.Category)
			assert.True(t, page.Empty())

			page, err = c.SearchClubs(context.Background(), Params{Query: "zzz"})
			require.NoError(t, err)
			assert.True(t, page.Success)
			assert.Equal(t, CategoryClubs, page.Category)
			assert.True(t, page.Empty())
		})
	}
}

func TestClient_HTTPErrorIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"status":"error","code":"INTERNAL_ERROR","message":"search failed"}`)
	})

	_, err := c.SearchGeneral(context.Background(), Params{Query: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	assert.Equal(t, "search failed", apiErr.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	})

	_, err := c.SearchUsers(context.Background(), Params{Query: "x"})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SearchUsers(ctx, Params{Query: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_SendsRequestIDAndToken(t *testing.T) {
	var auth, reqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-ID")
		io.WriteString(w, `{"status":"success","data":{"users":[]}}`)
	}, WithToken("tok"))

	_, err := c.SearchUsers(context.Background(), Params{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.NotEmpty(t, reqID)
}

func TestClient_Bookmarks(t *testing.T) {
	var deleted string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"status":"success","data":{"bookmarks":[{"id":"bm1","item_type":"book","item_id":"b1","title":"Dune"}]}}`)
		case http.MethodPost:
			var body addBookmarkRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"status":"success","data":{"id":"bm2","item_type":"`+string(body.ItemType)+`","item_id":"`+body.ItemID+`","title":"`+body.Title+`"}}`)
		case http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	}, WithToken("tok"))
	ctx := context.Background()

	list, err := c.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "book:b1", list[0].Key())

	bm, err := c.AddBookmark(ctx, Item{ID: "c1", Type: TypeClub, Title: "SF"})
	require.NoError(t, err)
	assert.Equal(t, "club:c1", bm.Key())

	require.NoError(t, c.RemoveBookmark(ctx, TypeClub, "c1"))
	assert.Equal(t, "/api/v1/bookmarks/club/c1", deleted)
}

func TestClient_BookmarksRequireToken(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.ListBookmarks(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, c.HasToken())
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"status":"error","code":"UNAUTHORIZED","message":"invalid token"}`)
	}, WithToken("bad"))

	_, err := c.ListBookmarks(context.Background())
	assert.True(t, IsUnauthorized(err))
}
