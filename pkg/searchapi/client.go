// Package searchapi is the HTTP client of the Bookish Search API. Every
// endpoint has its own response schema and normalizer; callers only see
// the canonical Item.
package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	pkglog "github.com/GrandEmpereur/Bookish-sub000/pkg/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20

	pathSearch    = "/api/v1/search"
	pathBookmarks = "/api/v1/bookmarks"
)

// Client talks to the Search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger logs outbound requests with logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = &logger }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		logger := pkglog.L()
		if c.logger != nil {
			logger = *c.logger
		}
		c.httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: pkglog.NewTransport(http.DefaultTransport, logger),
		}
	}
	return c
}

// HasToken reports whether authenticated calls can be made.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Search dispatches p to the endpoint of p.Category.
func (c *Client) Search(ctx context.Context, p Params) (*Page, error) {
	switch p.Category {
	case CategoryAll, "":
		return c.SearchGeneral(ctx, p)
	case CategoryUsers:
		return c.SearchUsers(ctx, p)
	case CategoryBooks:
		return c.SearchBooks(ctx, p)
	case CategoryClubs:
		return c.SearchClubs(ctx, p)
	case CategoryBookLists:
		return c.SearchBookLists(ctx, p)
	case CategoryAuthors:
		return c.SearchAuthors(ctx, p)
	default:
		return nil, fmt.Errorf("unknown search category %q", p.Category)
	}
}

// SearchGeneral queries every category at once.
func (c *Client) SearchGeneral(ctx context.Context, p Params) (*Page, error) {
	data, ok, err := c.get(ctx, pathSearch, p.values())
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Page{Category: CategoryAll}, nil
	}
	if noData(data) {
		return &Page{Success: true, Category: CategoryAll}, nil
	}
	return decodeGeneralPage(data)
}

func (c *Client) SearchUsers(ctx context.Context, p Params) (*Page, error) {
	return c.searchCategory(ctx, CategoryUsers, p)
}

func (c *Client) SearchBooks(ctx context.Context, p Params) (*Page, error) {
	return c.searchCategory(ctx, CategoryBooks, p)
}

func (c *Client) SearchClubs(ctx context.Context, p Params) (*Page, error) {
	return c.searchCategory(ctx, CategoryClubs, p)
}

func (c *Client) SearchBookLists(ctx context.Context, p Params) (*Page, error) {
	return c.searchCategory(ctx, CategoryBookLists, p)
}

// SearchAuthors queries authors, optionally narrowed by p.Filter.
func (c *Client) SearchAuthors(ctx context.Context, p Params) (*Page, error) {
	return c.searchCategory(ctx, CategoryAuthors, p)
}

func (c *Client) searchCategory(ctx context.Context, cat Category, p Params) (*Page, error) {
	q := p.values()
	if cat == CategoryAuthors && p.Filter != "" {
		q.Set("category", p.Filter)
	}
	data, ok, err := c.get(ctx, pathSearch+"/"+string(cat), q)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Page{Category: cat}, nil
	}
	if noData(data) {
		return &Page{Success: true, Category: cat}, nil
	}
	return decodeCategoryPage(cat, data)
}

// noData reports a successful reply without a payload (204 or "data": null).
func noData(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

func (p Params) values() url.Values {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// get performs a GET and returns the envelope data. ok is false when the
// envelope status is not success.
func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, bool, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating search request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, bool, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("search api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("reading search api response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return nil, false, apiErr
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, true, nil
	}
	if decodeErr != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	}
	if env.Status != statusSuccess {
		return nil, false, nil
	}
	return env.Data, true, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, ok, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &APIError{StatusCode: http.StatusOK, Code: "error", Message: "request was not successful"}
	}
	return data, nil
}
