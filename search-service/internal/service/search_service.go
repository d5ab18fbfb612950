package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/pubsub"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/cache"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Options tune the optional collaborators of the search service.
type Options struct {
	CacheTTL time.Duration
	// Suggestions is consulted for first pages of general searches.
	Suggestions     cache.SuggestionStore
	SuggestionLimit int
	// Publisher receives a search.performed event per first page served.
	Publisher pubsub.Publisher
}

type searchServiceImpl struct {
	repo  repository.SearchRepository
	cache cache.SearchCache
	opts  Options
	sf    singleflight.Group
	wg    sync.WaitGroup
	now   func() time.Time
}

// NewSearchService creates a new search service.
func NewSearchService(repo repository.SearchRepository, searchCache cache.SearchCache, opts Options) SearchService {
	return &searchServiceImpl{
		repo:  repo,
		cache: searchCache,
		opts:  opts,
		now:   time.Now,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, req *domain.SearchRequest) (*domain.GeneralResponse, error) {
	s.normalizeRequest(req)
	start := s.now()

	pages := make([]*domain.CategoryResult, len(searchapi.ResultCategories))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range searchapi.ResultCategories {
		i, c := i, c
		g.Go(func() error {
			res, err := s.categoryPage(gCtx, c, req)
			if err != nil {
				return err
			}
			pages[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &domain.GeneralResponse{
		Results: domain.Results{
			Unified: []domain.TypedItem{},
			Grouped: make(map[string]domain.GroupedResult, len(pages)),
		},
		Metrics: domain.Metrics{Suggestions: []string{}},
	}
	hasMore := false
	for i, c := range searchapi.ResultCategories {
		res := pages[i]
		for _, doc := range res.Items {
			resp.Results.Unified = append(resp.Results.Unified, domain.TypedItem{Type: c.ItemType(), Doc: doc})
		}
		resp.Results.Grouped[string(c)] = domain.GroupedResult{Data: nonNil(res.Items), Total: res.Total}
		setTotal(&resp.Totals, c, res.Total)
		if domain.NewPagination(req.Page, req.Limit, res.Total).HasMore {
			hasMore = true
		}
	}
	resp.Pagination = domain.Pagination{
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   resp.Totals.Total,
		HasMore: hasMore,
	}

	if req.Page == 1 {
		resp.Metrics.Suggestions = s.suggest(ctx, req.Query)
		s.publish(ctx, searchapi.CategoryAll, req.Query, len(resp.Results.Unified), resp.Totals.Total)
	}
	resp.Metrics.TookMs = s.now().Sub(start).Milliseconds()

	return resp, nil
}

func (s *searchServiceImpl) SearchCategory(ctx context.Context, category searchapi.Category, req *domain.SearchRequest) (*domain.CategoryResponse, error) {
	if category == searchapi.CategoryAll || !category.Valid() {
		return nil, repository.ErrUnknownCategory
	}
	s.normalizeRequest(req)

	res, err := s.categoryPage(ctx, category, req)
	if err != nil {
		return nil, err
	}

	if req.Page == 1 {
		s.publish(ctx, category, req.Query, len(res.Items), res.Total)
	}

	return &domain.CategoryResponse{
		Category:   category,
		Items:      res.Items,
		Pagination: domain.NewPagination(req.Page, req.Limit, res.Total),
	}, nil
}

// categoryPage serves one category page from cache, collapsing concurrent
// identical lookups.
func (s *searchServiceImpl) categoryPage(ctx context.Context, category searchapi.Category, req *domain.SearchRequest) (*domain.CategoryResult, error) {
	filter := ""
	if category == searchapi.CategoryAuthors {
		filter = req.Category
	}
	cacheKey := s.cache.BuildKey(string(category), req.Query, filter, req.Page, req.Limit)

	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		// Try cache
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("cache get error")
		}

		res, err := s.repo.Search(ctx, category, req.Query, filter, req.Offset(), req.Limit)
		if err != nil {
			return nil, err
		}

		s.asyncCacheSet(cacheKey, res)

		return res, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.CategoryResult), nil
}

func (s *searchServiceImpl) suggest(ctx context.Context, query string) []string {
	if s.opts.Suggestions == nil {
		return []string{}
	}
	out, err := s.opts.Suggestions.Suggest(ctx, query, s.opts.SuggestionLimit)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldQuery, query).Msg("suggestions lookup failed")
		return []string{}
	}
	return out
}

func (s *searchServiceImpl) publish(ctx context.Context, category searchapi.Category, query string, results, total int) {
	if s.opts.Publisher == nil {
		return
	}
	l := log.Ctx(ctx)

	event, err := pubsub.NewEvent(pubsub.EventSearchPerformed, cache.NormalizeQuery(query), pubsub.SearchPerformedPayload{
		Query:    query,
		Category: string(category),
		Results:  results,
		Total:    total,
	})
	if err != nil {
		l.Error().Err(err).Msg("failed to build search event")
		return
	}
	if err := s.opts.Publisher.Publish(ctx, pubsub.ChannelSearchPerformed, event); err != nil {
		l.Warn().Err(err).Str(log.FieldQuery, query).Msg("failed to publish search event")
	}
}

func (s *searchServiceImpl) normalizeRequest(req *domain.SearchRequest) {
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Page < 1 {
		req.Page = 1
	}
}

func (s *searchServiceImpl) asyncCacheSet(key string, res *domain.CategoryResult) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, key, res, s.opts.CacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}

// Wait blocks until pending cache writes finish.
func (s *searchServiceImpl) Wait() {
	s.wg.Wait()
}

func setTotal(t *searchapi.Totals, c searchapi.Category, n int) {
	switch c {
	case searchapi.CategoryUsers:
		t.Users = n
	case searchapi.CategoryBooks:
		t.Books = n
	case searchapi.CategoryClubs:
		t.Clubs = n
	case searchapi.CategoryBookLists:
		t.BookLists = n
	case searchapi.CategoryAuthors:
		t.Authors = n
	}
	t.Total += n
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
