package searchapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// envelope is the response wrapper shared by every endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

const statusSuccess = "success"

// flexID accepts ids encoded as JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

// v1 item schemas, one per endpoint.

type userV1 struct {
	ID          flexID `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

func (u userV1) toItem() Item {
	title := u.Username
	subtitle := u.DisplayName
	if title == "" {
		title = u.DisplayName
		subtitle = ""
	}
	if subtitle == "" {
		subtitle = u.Bio
	}
	return Item{ID: string(u.ID), Type: TypeUser, Title: title, Subtitle: subtitle, ImageURL: u.AvatarURL}
}

type bookV1 struct {
	ID            flexID `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	CoverImage    string `json:"cover_image"`
	PublishedYear int    `json:"published_year"`
}

func (b bookV1) toItem() Item {
	subtitle := b.Author
	if b.PublishedYear > 0 {
		if subtitle != "" {
			subtitle += ", "
		}
		subtitle += strconv.Itoa(b.PublishedYear)
	}
	return Item{ID: string(b.ID), Type: TypeBook, Title: b.Title, Subtitle: subtitle, ImageURL: b.CoverImage}
}

type clubV1 struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	MemberCount int    `json:"member_count"`
}

func (c clubV1) toItem() Item {
	subtitle := c.Description
	if c.MemberCount > 0 {
		subtitle = pluralize(c.MemberCount, "member")
	}
	return Item{ID: string(c.ID), Type: TypeClub, Title: c.Name, Subtitle: subtitle, ImageURL: c.CoverImage}
}

type bookListV1 struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	BookCount   int    `json:"book_count"`
}

func (l bookListV1) toItem() Item {
	subtitle := l.Description
	if l.BookCount > 0 {
		subtitle = pluralize(l.BookCount, "book")
	}
	return Item{ID: string(l.ID), Type: TypeBookList, Title: l.Name, Subtitle: subtitle, ImageURL: l.CoverImage}
}

type authorV1 struct {
	ID       flexID `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
}

func (a authorV1) toItem() Item {
	return Item{ID: string(a.ID), Type: TypeAuthor, Title: a.Name, Subtitle: a.Bio, ImageURL: a.PhotoURL}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

type itemSchema interface {
	toItem() Item
}

func normalize[T itemSchema](raw string) (Item, error) {
	var w T
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Item{}, err
	}
	return w.toItem(), nil
}

// normalizers maps each item type to the decoder of its endpoint schema.
var normalizers = map[ItemType]func(raw string) (Item, error){
	TypeUser:     normalize[userV1],
	TypeBook:     normalize[bookV1],
	TypeClub:     normalize[clubV1],
	TypeBookList: normalize[bookListV1],
	TypeAuthor:   normalize[authorV1],
}

// decodeItems normalizes a JSON array of items of type t. Malformed entries
// and entries without an id are dropped.
func decodeItems(t ItemType, arr gjson.Result) []Item {
	norm, ok := normalizers[t]
	if !ok || !arr.IsArray() {
		return []Item{}
	}
	items := make([]Item, 0, len(arr.Array()))
	arr.ForEach(func(_, v gjson.Result) bool {
		item, err := norm(v.Raw)
		if err == nil && item.ID != "" {
			items = append(items, item)
		}
		return true
	})
	return items
}

// itemTypeOf reads the type discriminator of a unified entry. Plural forms
// ("books") are accepted as well as singular ones.
func itemTypeOf(v gjson.Result) ItemType {
	t := strings.ToLower(v.Get("type").String())
	if c := Category(t); c != CategoryAll && c.Valid() {
		return c.ItemType()
	}
	return ItemType(t)
}

// decodeUnified normalizes a mixed array using each entry's discriminator.
func decodeUnified(arr gjson.Result) []Item {
	items := make([]Item, 0, len(arr.Array()))
	arr.ForEach(func(_, v gjson.Result) bool {
		norm, ok := normalizers[itemTypeOf(v)]
		if !ok {
			return true
		}
		item, err := norm(v.Raw)
		if err == nil && item.ID != "" {
			items = append(items, item)
		}
		return true
	})
	return items
}

// decodePagination returns nil when data has no pagination object.
func decodePagination(data gjson.Result) *Pagination {
	p := data.Get("pagination")
	if !p.IsObject() {
		return nil
	}
	return &Pagination{
		Page:    int(p.Get("page").Int()),
		Limit:   int(p.Get("limit").Int()),
		Total:   int(p.Get("total").Int()),
		HasMore: p.Get("has_more").Bool(),
	}
}

// decodeCategoryPage normalizes the data of a single-category endpoint:
// {"<category>": [...], "pagination": {...}}.
func decodeCategoryPage(c Category, data []byte) (*Page, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrDecode
	}
	root := gjson.ParseBytes(data)
	list := root.Get(string(c))
	if !list.Exists() {
		list = root.Get("data")
	}

	page := &Page{
		Success:    true,
		Category:   c,
		Items:      decodeItems(c.ItemType(), list),
		Pagination: decodePagination(root),
	}
	if page.Pagination != nil {
		page.Total = page.Pagination.Total
	}
	return page, nil
}

// decodeGeneralPage normalizes the data of the general endpoint.
func decodeGeneralPage(data []byte) (*Page, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrDecode
	}
	root := gjson.ParseBytes(data)
	results := root.Get("results")

	unified := &Unified{
		Items:   decodeUnified(results.Get("unified")),
		Grouped: make(map[Category][]Item, len(ResultCategories)),
	}
	grouped := results.Get("grouped")
	for _, c := range ResultCategories {
		g := grouped.Get(string(c))
		if !g.IsArray() {
			g = g.Get("data")
		}
		unified.Grouped[c] = decodeItems(c.ItemType(), g)
	}
	if t := root.Get("totals"); t.IsObject() {
		if err := json.Unmarshal([]byte(t.Raw), &unified.Totals); err != nil {
			return nil, fmt.Errorf("%w: totals: %v", ErrDecode, err)
		}
	}

	page := &Page{
		Success:    true,
		Category:   CategoryAll,
		Items:      unified.Items,
		Pagination: decodePagination(root),
		Total:      unified.Totals.For(CategoryAll),
		Unified:    unified,
	}
	if page.Pagination != nil {
		unified.HasMore = page.Pagination.HasMore
	} else {
		unified.HasMore = page.Total > len(unified.Items)
	}
	for _, s := range root.Get("metrics.suggestions").Array() {
		if s.String() != "" {
			page.Suggestions = append(page.Suggestions, s.String())
		}
	}
	return page, nil
}
