package searchstate

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/kvstore"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

// DefaultDebounce is the delay between the last keystroke and the request.
const DefaultDebounce = 500 * time.Millisecond

type options struct {
	debounce time.Duration
	cfg      Config
	store    kvstore.Store
	logger   *zerolog.Logger
}

// Option configures a Manager.
type Option func(*options)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithPageSize sets the number of items requested per page.
func WithPageSize(n int) Option {
	return func(o *options) { o.cfg.PageSize = n }
}

// WithMinQueryLength sets the shortest trimmed query that triggers a request.
func WithMinQueryLength(n int) Option {
	return func(o *options) { o.cfg.MinQueryLength = n }
}

// WithStore sets the store used for recent searches.
func WithStore(s kvstore.Store) Option {
	return func(o *options) { o.store = s }
}

// WithErrorMessage sets the message shown when a request fails.
func WithErrorMessage(msg string) Option {
	return func(o *options) { o.cfg.ErrorMessage = msg }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithCategory sets the initial category.
func WithCategory(c searchapi.Category) Option {
	return func(o *options) { o.cfg.Category = c }
}
