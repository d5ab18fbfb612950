package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/pubsub"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/cache"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/repository"
)

type searchCall struct {
	category searchapi.Category
	query    string
	filter   string
	offset   int
	limit    int
}

type fakeRepo struct {
	mu     sync.Mutex
	totals map[searchapi.Category]int
	err    error
	calls  []searchCall
}

func (f *fakeRepo) Search(ctx context.Context, category searchapi.Category, query, filter string, offset, limit int) (*domain.CategoryResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{category, query, filter, offset, limit})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	total := f.totals[category]
	res := &domain.CategoryResult{Total: total}
	for i := offset; i < total && i < offset+limit; i++ {
		res.Items = append(res.Items, json.RawMessage(fmt.Sprintf(`{"id":"%s-%d"}`, category, i)))
	}
	return res, nil
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memCache struct {
	mu   sync.Mutex
	data map[string]*domain.CategoryResult
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]*domain.CategoryResult)}
}

func (m *memCache) BuildKey(category, query, filter string, page, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d", category, cache.NormalizeQuery(query), filter, page, limit)
}

func (m *memCache) Get(ctx context.Context, key string) (*domain.CategoryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.data[key]; ok {
		return r, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *memCache) Set(ctx context.Context, key string, result *domain.CategoryResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = result
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

type fakeSuggestions struct{ out []string }

func (f *fakeSuggestions) Record(ctx context.Context, query string) error { return nil }

func (f *fakeSuggestions) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	return f.out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*pubsub.Event
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, event *pubsub.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channel != pubsub.ChannelSearchPerformed {
		return errors.New("unexpected channel")
	}
	f.events = append(f.events, event)
	return nil
}

func newService(repo *fakeRepo, c cache.SearchCache, opts Options) *searchServiceImpl {
	return NewSearchService(repo, c, opts).(*searchServiceImpl)
}

func TestSearch_General(t *testing.T) {
	repo := &fakeRepo{totals: map[searchapi.Category]int{
		searchapi.CategoryUsers: 1,
		searchapi.CategoryBooks: 25,
	}}
	pub := &fakePublisher{}
	svc := newService(repo, newMemCache(), Options{
		Suggestions:     &fakeSuggestions{out: []string{"harry potter"}},
		SuggestionLimit: 5,
		Publisher:       pub,
	})

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "harry"})
	require.NoError(t, err)
	svc.Wait()

	assert.Len(t, resp.Results.Unified, 21)
	assert.Equal(t, searchapi.TypeUser, resp.Results.Unified[0].Type)
	assert.Equal(t, searchapi.TypeBook, resp.Results.Unified[1].Type)
	assert.Len(t, resp.Results.Grouped, len(searchapi.ResultCategories))
	assert.Equal(t, 25, resp.Results.Grouped["books"].Total)
	assert.NotNil(t, resp.Results.Grouped["clubs"].Data)

	assert.Equal(t, searchapi.Totals{Total: 26, Users: 1, Books: 25}, resp.Totals)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 20, Total: 26, HasMore: true}, resp.Pagination)
	assert.Equal(t, []string{"harry potter"}, resp.Metrics.Suggestions)

	require.Len(t, pub.events, 1)
	var p pubsub.SearchPerformedPayload
	require.NoError(t, pub.events[0].UnmarshalPayload(&p))
	assert.Equal(t, pubsub.SearchPerformedPayload{Query: "harry", Category: "all", Results: 21, Total: 26}, p)
}

func TestSearch_GeneralSecondPage(t *testing.T) {
	repo := &fakeRepo{totals: map[searchapi.Category]int{searchapi.CategoryBooks: 25}}
	pub := &fakePublisher{}
	svc := newService(repo, newMemCache(), Options{
		Suggestions: &fakeSuggestions{out: []string{"x"}},
		Publisher:   pub,
	})

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "harry", Page: 2})
	require.NoError(t, err)
	svc.Wait()

	assert.Len(t, resp.Results.Unified, 5)
	assert.False(t, resp.Pagination.HasMore)
	assert.Empty(t, resp.Metrics.Suggestions)
	assert.Empty(t, pub.events)
}

func TestSearch_UsesCache(t *testing.T) {
	repo := &fakeRepo{totals: map[searchapi.Category]int{searchapi.CategoryBooks: 3}}
	svc := newService(repo, newMemCache(), Options{})

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "Dune"})
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, len(searchapi.ResultCategories), repo.callCount())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "  dune "})
	require.NoError(t, err)
	assert.Equal(t, len(searchapi.ResultCategories), repo.callCount())
	assert.Equal(t, 3, resp.Totals.Books)
}

func TestSearch_RepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("es down")}
	svc := newService(repo, newMemCache(), Options{})

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "x"})
	assert.EqualError(t, err, "es down")

	_, err = svc.SearchCategory(context.Background(), searchapi.CategoryBooks, &domain.SearchRequest{Query: "x"})
	assert.EqualError(t, err, "es down")
}

func TestSearchCategory(t *testing.T) {
	repo := &fakeRepo{totals: map[searchapi.Category]int{searchapi.CategoryAuthors: 45}}
	pub := &fakePublisher{}
	svc := newService(repo, newMemCache(), Options{Publisher: pub})

	resp, err := svc.SearchCategory(context.Background(), searchapi.CategoryAuthors,
		&domain.SearchRequest{Query: "tolkien", Page: 3, Limit: 20, Category: "fantasy"})
	require.NoError(t, err)
	svc.Wait()

	assert.Len(t, resp.Items, 5)
	assert.Equal(t, domain.NewPagination(3, 20, 45), resp.Pagination)
	assert.Equal(t, searchCall{searchapi.CategoryAuthors, "tolkien", "fantasy", 40, 20}, repo.calls[0])
	assert.Empty(t, pub.events)
}

func TestSearchCategory_FilterOnlyForAuthors(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, newMemCache(), Options{})

	_, err := svc.SearchCategory(context.Background(), searchapi.CategoryBooks,
		&domain.SearchRequest{Query: "x", Category: "fantasy"})
	require.NoError(t, err)
	svc.Wait()
	assert.Empty(t, repo.calls[0].filter)
}

func TestSearchCategory_Unknown(t *testing.T) {
	svc := newService(&fakeRepo{}, newMemCache(), Options{})

	for _, c := range []searchapi.Category{searchapi.CategoryAll, "rooms"} {
		_, err := svc.SearchCategory(context.Background(), c, &domain.SearchRequest{Query: "x"})
		assert.ErrorIs(t, err, repository.ErrUnknownCategory)
	}
}

func TestNormalizeRequest(t *testing.T) {
	svc := newService(&fakeRepo{}, newMemCache(), Options{})

	tests := []struct {
		in, want domain.SearchRequest
	}{
		{domain.SearchRequest{}, domain.SearchRequest{Page: 1, Limit: 20}},
		{domain.SearchRequest{Page: -2, Limit: 500}, domain.SearchRequest{Page: 1, Limit: 100}},
		{domain.SearchRequest{Page: 4, Limit: 10}, domain.SearchRequest{Page: 4, Limit: 10}},
	}
	for _, tt := range tests {
		req := tt.in
		svc.normalizeRequest(&req)
		assert.Equal(t, tt.want, req)
	}
}
