package searchapi

import "fmt"

// Category is a search facet.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryUsers     Category = "users"
	CategoryBooks     Category = "books"
	CategoryClubs     Category = "clubs"
	CategoryBookLists Category = "book_lists"
	CategoryAuthors   Category = "authors"
)

// Categories lists every facet in display order.
var Categories = []Category{
	CategoryAll,
	CategoryUsers,
	CategoryBooks,
	CategoryClubs,
	CategoryBookLists,
	CategoryAuthors,
}

// ResultCategories lists the facets backed by an index, in unified order.
var ResultCategories = Categories[1:]

// ParseCategory converts s into a Category. The empty string means all.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryAll, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown search category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemType is the item type produced by a category endpoint. CategoryAll
// has no single item type and returns "".
func (c Category) ItemType() ItemType {
	switch c {
	case CategoryUsers:
		return TypeUser
	case CategoryBooks:
		return TypeBook
	case CategoryClubs:
		return TypeClub
	case CategoryBookLists:
		return TypeBookList
	case CategoryAuthors:
		return TypeAuthor
	default:
		return ""
	}
}

// Label is a short human-readable name.
func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "All"
	case CategoryUsers:
		return "Users"
	case CategoryBooks:
		return "Books"
	case CategoryClubs:
		return "Clubs"
	case CategoryBookLists:
		return "Book lists"
	case CategoryAuthors:
		return "Authors"
	default:
		return string(c)
	}
}

// ItemType tags an Item with the kind of entity it describes.
type ItemType string

const (
	TypeUser     ItemType = "user"
	TypeBook     ItemType = "book"
	TypeClub     ItemType = "club"
	TypeBookList ItemType = "book_list"
	TypeAuthor   ItemType = "author"
)

// Category is the facet listing items of this type.
func (t ItemType) Category() Category {
	switch t {
	case TypeUser:
		return CategoryUsers
	case TypeBook:
		return CategoryBooks
	case TypeClub:
		return CategoryClubs
	case TypeBookList:
		return CategoryBookLists
	case TypeAuthor:
		return CategoryAuthors
	default:
		return ""
	}
}

// Item is the canonical search result, whatever endpoint produced it.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Key identifies the item among results of any type.
func (i Item) Key() string {
	return string(i.Type) + ":" + i.ID
}

// Params are the query parameters shared by every search endpoint.
type Params struct {
	Query    string
	Page     int
	Limit    int
	Category Category
	// Filter narrows author searches (sent as the endpoint's category parameter).
	Filter string
}

// Pagination is the cursor reported by the backend.
type Pagination struct {
	Page    int
	Limit   int
	Total   int
	HasMore bool
}

// Totals are the per-category counts reported by the general endpoint.
type Totals struct {
	Total     int `json:"total"`
	Users     int `json:"users"`
	Books     int `json:"books"`
	Clubs     int `json:"clubs"`
	BookLists int `json:"book_lists"`
	Authors   int `json:"authors"`
}

// For returns the count for c.
func (t Totals) For(c Category) int {
	switch c {
	case CategoryAll:
		if t.Total == 0 {
			return t.Users + t.Books + t.Clubs + t.BookLists + t.Authors
		}
		return t.Total
	case CategoryUsers:
		return t.Users
	case CategoryBooks:
		return t.Books
	case CategoryClubs:
		return t.Clubs
	case CategoryBookLists:
		return t.BookLists
	case CategoryAuthors:
		return t.Authors
	default:
		return 0
	}
}

// Unified is the general endpoint payload: one mixed list plus the same
// results grouped per category.
type Unified struct {
	Items   []Item
	Grouped map[Category][]Item
	Totals  Totals
	HasMore bool
}

// Slice returns the items shown for c.
func (u *Unified) Slice(c Category) []Item {
	if c == CategoryAll {
		return u.Items
	}
	return u.Grouped[c]
}

// Page is one normalized response of a search endpoint.
type Page struct {
	// Success is false when the backend answered with a non-success status.
	Success  bool
	Category Category
	Items    []Item
	// Pagination is nil when the response carried no pagination object.
	Pagination *Pagination
	// Total is the backend-reported total for Category, 0 when unknown.
	Total       int
	Unified     *Unified
	Suggestions []string
}

// Empty reports whether the page carries no results.
func (p *Page) Empty() bool {
	return p == nil || !p.Success || len(p.Items) == 0
}
