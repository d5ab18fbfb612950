package domain

import (
	"bytes"
	"encoding/json"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

// SearchRequest holds the query parameters shared by every search route.
type SearchRequest struct {
	Query string `form:"q" binding:"required"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	// Category narrows author searches (e.g. a genre).
	Category string `form:"category"`
}

// Offset is the index of the first hit of the requested page.
func (r *SearchRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// CategoryResult is one page of hits from a category index. Items are the
// raw documents as stored in the index.
type CategoryResult struct {
	Items []json.RawMessage `json:"items"`
	Total int               `json:"total"`
}

// Pagination is the cursor returned with every search response.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPagination computes has_more from the total hit count.
func NewPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: page*limit < total,
	}
}

// CategoryResponse is the payload of a single-category route:
// {"<category>": [...], "pagination": {...}}.
type CategoryResponse struct {
	Category   searchapi.Category
	Items      []json.RawMessage
	Pagination Pagination
}

func (r CategoryResponse) MarshalJSON() ([]byte, error) {
	items := r.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	return json.Marshal(map[string]any{
		string(r.Category): items,
		"pagination":       r.Pagination,
	})
}

// TypedItem is an index document tagged with its item type.
type TypedItem struct {
	Type searchapi.ItemType
	Doc  json.RawMessage
}

// MarshalJSON emits the document with a leading "type" member.
func (t TypedItem) MarshalJSON() ([]byte, error) {
	typ, err := json.Marshal(t.Type)
	if err != nil {
		return nil, err
	}
	doc := bytes.TrimSpace(t.Doc)
	if len(doc) < 2 || doc[0] != '{' {
		return json.Marshal(map[string]any{"type": t.Type})
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	inner := bytes.TrimSpace(doc[1 : len(doc)-1])
	if len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupedResult holds the hits of one category inside the general response.
type GroupedResult struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
}

// Results are the hits of the general route, mixed and per category.
type Results struct {
	Unified []TypedItem              `json:"unified"`
	Grouped map[string]GroupedResult `json:"grouped"`
}

// Metrics carry extra information about a general search.
type Metrics struct {
	Suggestions []string `json:"suggestions"`
	TookMs      int64    `json:"took_ms"`
}

// GeneralResponse is the payload of the general search route.
type GeneralResponse struct {
	Results    Results          `json:"results"`
	Totals     searchapi.Totals `json:"totals"`
	Pagination Pagination       `json:"pagination"`
	Metrics    Metrics          `json:"metrics"`
}
