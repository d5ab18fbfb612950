// Package searchstate manages the client-side state of a search screen:
// debounced querying, category switching, pagination with a result cap and
// deduplication, and cancellation of superseded requests.
//
// The transitions live in the pure Reduce function. Manager owns one State,
// feeds it events and carries out the effects Reduce asks for.
package searchstate

import (
	"strings"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

const (
	// MaxResults caps the results accumulated for one query and category.
	MaxResults = 100

	DefaultPageSize       = 20
	DefaultMinQueryLength = 1
	DefaultErrorMessage   = "Something went wrong while searching. Please try again."
)

// Phase is the state machine's current phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pagination is the cursor of the current result set.
type Pagination struct {
	Page    int
	Limit   int
	HasMore bool
}

// Config holds the tunables the reducer needs.
type Config struct {
	PageSize       int
	MinQueryLength int
	ErrorMessage   string
	Category       searchapi.Category
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = DefaultMinQueryLength
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = DefaultErrorMessage
	}
	if !c.Category.Valid() {
		c.Category = searchapi.CategoryAll
	}
	return c
}

// Request is one fetch issued by the reducer.
type Request struct {
	Token  uint64
	Params searchapi.Params
	// Append is true for LoadMore pages.
	Append bool
}

// State is an immutable snapshot. Results must be treated as read-only.
type State struct {
	Query       string
	Category    searchapi.Category
	Results     []searchapi.Item
	Pagination  Pagination
	Total       int
	Phase       Phase
	Loading     bool
	LoadingMore bool
	HasSearched bool
	Err         string
	Suggestions []string
	// FromCache is set when Results were sliced from the cached general payload.
	FromCache bool

	cfg          Config
	version      uint64
	token        uint64
	timer        uint64
	pending      *Request
	unified      *searchapi.Unified
	unifiedQuery string
	disposed     bool
}

// NewState returns the initial state for cfg.
func NewState(cfg Config) State {
	cfg = cfg.withDefaults()
	return State{
		Category:   cfg.Category,
		Pagination: Pagination{Page: 1, Limit: cfg.PageSize},
		Phase:      PhaseIdle,
		cfg:        cfg,
	}
}

// HasMore reports whether LoadMore can fetch another page.
func (s State) HasMore() bool {
	return s.Pagination.HasMore
}

// NoResults reports a completed search that found nothing.
func (s State) NoResults() bool {
	return s.HasSearched && s.Phase == PhaseLoaded && len(s.Results) == 0
}

// Busy reports whether a debounce timer or a request is pending.
func (s State) Busy() bool {
	return s.Phase == PhaseDebouncing || s.pending != nil
}

// Pending returns the in-flight request, if any.
func (s State) Pending() (Request, bool) {
	if s.pending == nil {
		return Request{}, false
	}
	return *s.pending, true
}

// Version increases on every change of the snapshot.
func (s State) Version() uint64 {
	return s.version
}

// Cached reports whether the general payload of the current query is cached.
func (s State) Cached() bool {
	return s.unified != nil && s.unifiedQuery == normalizeQuery(s.Query)
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
