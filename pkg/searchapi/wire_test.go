package searchapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID(t *testing.T) {
	tests := []struct {
		in   string
		want flexID
	}{
		{`"abc"`, "abc"},
		{`42`, "42"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id flexID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		assert.Equal(t, tt.want, id)
	}

	var id flexID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name string
		typ  ItemType
		raw  string
		want Item
	}{
		{
			name: "user",
			typ:  TypeUser,
			raw:  `{"id":1,"username":"frodo","display_name":"Frodo Baggins","avatar_url":"a.png"}`,
			want: Item{ID: "1", Type: TypeUser, Title: "frodo", Subtitle: "Frodo Baggins", ImageURL: "a.png"},
		},
		{
			name: "user without username",
			typ:  TypeUser,
			raw:  `{"id":"u2","display_name":"Sam","bio":"gardener"}`,
			want: Item{ID: "u2", Type: TypeUser, Title: "Sam", Subtitle: "gardener"},
		},
		{
			name: "book",
			typ:  TypeBook,
			raw:  `{"id":"b1","title":"Dune","author":"Frank Herbert","published_year":1965,"cover_image":"d.jpg"}`,
			want: Item{ID: "b1", Type: TypeBook, Title: "Dune", Subtitle: "Frank Herbert, 1965", ImageURL: "d.jpg"},
		},
		{
			name: "club",
			typ:  TypeClub,
			raw:  `{"id":"c1","name":"SF Readers","description":"x","member_count":1}`,
			want: Item{ID: "c1", Type: TypeClub, Title: "SF Readers", Subtitle: "1 member"},
		},
		{
			name: "book list",
			typ:  TypeBookList,
			raw:  `{"id":"l1","name":"Classics","book_count":12}`,
			want: Item{ID: "l1", Type: TypeBookList, Title: "Classics", Subtitle: "12 books"},
		},
		{
			name: "author",
			typ:  TypeAuthor,
			raw:  `{"id":"a1","name":"Ursula K. Le Guin","bio":"Earthsea","photo_url":"u.jpg"}`,
			want: Item{ID: "a1", Type: TypeAuthor, Title: "Ursula K. Le Guin", Subtitle: "Earthsea", ImageURL: "u.jpg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizers[tt.typ](tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCategoryPage(t *testing.T) {
	data := []byte(`{
		"books": [
			{"id":"b1","title":"Dune"},
			{"title":"no id"},
			"garbage",
			{"id":"b2","title":"Emma"}
		],
		"pagination": {"page":2,"limit":20,"total":57,"has_more":true}
	}`)

	page, err := decodeCategoryPage(CategoryBooks, data)
	require.NoError(t, err)

	assert.True(t, page.Success)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "b1", page.Items[0].ID)
	assert.Equal(t, "b2", page.Items[1].ID)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, Pagination{Page: 2, Limit: 20, Total: 57, HasMore: true}, *page.Pagination)
	assert.Equal(t, 57, page.Total)
}

func TestDecodeCategoryPage_NoPagination(t *testing.T) {
	page, err := decodeCategoryPage(CategoryUsers, []byte(`{"users":[{"id":"u1","username":"x"}]}`))
	require.NoError(t, err)
	assert.Nil(t, page.Pagination)
	assert.Zero(t, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestDecodeCategoryPage_Invalid(t *testing.T) {
	_, err := decodeCategoryPage(CategoryUsers, []byte(`{`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeGeneralPage(t *testing.T) {
	data := []byte(`{
		"results": {
			"unified": [
				{"type":"user","id":"u1","username":"harry"},
				{"type":"books","id":"b1","title":"Harry Potter"},
				{"type":"podcast","id":"p1"},
				{"type":"book_list","id":"l1","name":"Wizards"}
			],
			"grouped": {
				"users": {"data":[{"id":"u1","username":"harry"}]},
				"books": [{"id":"b1","title":"Harry Potter"}],
				"book_lists": {"data":[{"id":"l1","name":"Wizards"}]}
			}
		},
		"totals": {"total":150,"users":40,"books":80,"clubs":0,"book_lists":30,"authors":0},
		"pagination": {"page":1,"limit":20,"has_more":true},
		"metrics": {"suggestions":["harry potter","harry"], "took_ms": 3}
	}`)

	page, err := decodeGeneralPage(data)
	require.NoError(t, err)

	assert.Equal(t, CategoryAll, page.Category)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []ItemType{TypeUser, TypeBook, TypeBookList},
		[]ItemType{page.Items[0].Type, page.Items[1].Type, page.Items[2].Type})

	require.NotNil(t, page.Unified)
	assert.Len(t, page.Unified.Slice(CategoryUsers), 1)
	assert.Len(t, page.Unified.Slice(CategoryBooks), 1)
	assert.Empty(t, page.Unified.Slice(CategoryClubs))
	assert.Equal(t, page.Items, page.Unified.Slice(CategoryAll))
	assert.Equal(t, 150, page.Total)
	assert.Equal(t, 80, page.Unified.Totals.For(CategoryBooks))
	assert.True(t, page.Unified.HasMore)
	assert.Equal(t, []string{"harry potter", "harry"}, page.Suggestions)
}

func TestTotalsFor_AllFallsBackToSum(t *testing.T) {
	tt := Totals{Users: 2, Books: 3}
	assert.Equal(t, 5, tt.For(CategoryAll))
	assert.Zero(t, tt.For(Category("nope")))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryAll, c)

	c, err = ParseCategory("book_lists")
	require.NoError(t, err)
	assert.Equal(t, CategoryBookLists, c)
	assert.Equal(t, TypeBookList, c.ItemType())
	assert.Equal(t, CategoryBookLists, TypeBookList.Category())

	_, err = ParseCategory("rooms")
	assert.Error(t, err)
}
