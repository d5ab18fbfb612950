package searchstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

func TestComputeHasMore(t *testing.T) {
	more := &searchapi.Pagination{HasMore: true}
	done := &searchapi.Pagination{HasMore: false}

	tests := []struct {
		name       string
		loaded     int
		total      int
		pagination *searchapi.Pagination
		lastPage   int
		want       bool
	}{
		{"more pages", 20, 150, more, 20, true},
		{"backend says done", 20, 150, done, 20, false},
		{"short page despite flag", 15, 150, more, 15, false},
		{"cap reached", 100, 500, more, 20, false},
		{"total reached", 40, 40, more, 20, false},
		{"unknown total counts as cap", 60, 0, more, 20, true},
		{"no pagination uses total", 20, 30, nil, 20, true},
		{"no pagination and total loaded", 20, 20, nil, 20, false},
		{"nothing known", 20, 0, nil, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeHasMore(tt.loaded, tt.total, tt.pagination, tt.lastPage, 20))
		})
	}
}

func TestAppendUnique(t *testing.T) {
	existing := items(searchapi.TypeBook, 0, 3)
	page := append(items(searchapi.TypeBook, 2, 3), items(searchapi.TypeUser, 0, 1)...)

	out := appendUnique(existing, page)
	assert.Len(t, out, 6)
	assert.Len(t, existing, 3)

	// Same id, different type is a different result in the mixed list.
	assert.Equal(t, searchapi.TypeUser, out[5].Type)
}

func TestAppendUnique_DoesNotAliasExisting(t *testing.T) {
	existing := make([]searchapi.Item, 2, 10)
	copy(existing, items(searchapi.TypeBook, 0, 2))

	a := appendUnique(existing, items(searchapi.TypeBook, 10, 1))
	b := appendUnique(existing, items(searchapi.TypeBook, 20, 1))
	assert.Equal(t, "book-10", a[2].ID)
	assert.Equal(t, "book-20", b[2].ID)
}
