package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

func TestTypedItem_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"object", `{"id":"b1","title":"Dune"}`, `{"type":"book","id":"b1","title":"Dune"}`},
		{"empty object", `{}`, `{"type":"book"}`},
		{"not an object", `[1]`, `{"type":"book"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(TypedItem{Type: searchapi.TypeBook, Doc: json.RawMessage(tt.doc)})
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestCategoryResponse_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(CategoryResponse{
		Category:   searchapi.CategoryBookLists,
		Pagination: NewPagination(2, 20, 45),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"book_lists":[],"pagination":{"page":2,"limit":20,"total":45,"has_more":true}}`, string(b))
}

func TestNewPagination(t *testing.T) {
	assert.True(t, NewPagination(1, 20, 21).HasMore)
	assert.False(t, NewPagination(1, 20, 20).HasMore)
	assert.False(t, NewPagination(3, 20, 45).HasMore)
}

func TestSearchRequest_Offset(t *testing.T) {
	r := SearchRequest{Page: 3, Limit: 20}
	assert.Equal(t, 40, r.Offset())
}
