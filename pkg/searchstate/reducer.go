package searchstate

import (
	"context"
	"errors"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

// Reduce applies ev to s. It has no side effects: everything the runtime
// must do is returned as effects. Ignored events return s unchanged.
func Reduce(s State, ev Event) (State, []Effect) {
	if s.disposed {
		return s, nil
	}

	var (
		next    State
		effects []Effect
		changed bool
	)

	switch e := ev.(type) {
	case QueryChanged:
		next, effects, changed = onQueryChanged(s, e.Text)
	case Submitted:
		next, effects, changed = onSubmitted(s, e.Text)
	case TimerFired:
		next, effects, changed = onTimerFired(s, e)
	case CategoryChanged:
		next, effects, changed = onCategoryChanged(s, e.Category)
	case LoadMoreRequested:
		next, effects, changed = onLoadMore(s)
	case RefreshRequested:
		next, effects, changed = onRefresh(s)
	case Cleared:
		next, effects, changed = onCleared(s)
	case ResponseReceived:
		next, effects, changed = onResponse(s, e)
	case ResponseFailed:
		next, effects, changed = onFailure(s, e)
	case Disposed:
		next, effects, changed = onDisposed(s)
	default:
		return s, nil
	}

	if !changed {
		return s, nil
	}
	next.version = s.version + 1
	return next, effects
}

func onQueryChanged(s State, text string) (State, []Effect, bool) {
	if text == s.Query {
		return s, nil, false
	}

	var effects []Effect
	s, effects = cancelPending(s, effects)
	s.Query = text

	if normalizeQuery(text) == "" {
		s = reset(s)
		return s, append(effects, CancelDebounce{}), true
	}

	s.Phase = PhaseDebouncing
	s.timer++
	effects = append(effects, ScheduleDebounce{Text: text, Seq: s.timer})
	return s, effects, true
}

func onSubmitted(s State, text string) (State, []Effect, bool) {
	effects := []Effect{CancelDebounce{}}
	s, effects = cancelPending(s, effects)
	s.Query = text

	if !searchable(s) {
		return reset(s), effects, true
	}

	s = beginSearch(s)
	s, effects = startFetch(s, 1, false, effects)
	return s, effects, true
}

func onTimerFired(s State, e TimerFired) (State, []Effect, bool) {
	// A stopped timer may already be waiting to deliver; Seq tells it apart
	// from the current window even when the text matches again.
	if s.Phase != PhaseDebouncing || e.Seq != s.timer || e.Text != s.Query {
		return s, nil, false
	}
	if !searchable(s) {
		return reset(s), nil, true
	}

	s = beginSearch(s)
	s, effects := startFetch(s, 1, false, nil)
	return s, effects, true
}

func onCategoryChanged(s State, c searchapi.Category) (State, []Effect, bool) {
	if c == s.Category || !c.Valid() {
		return s, nil, false
	}

	var effects []Effect
	s.Category = c
	s.Pagination.Page = 1
	s.FromCache = false

	if s.Cached() && s.Phase != PhaseDebouncing {
		s, effects = cancelPending(s, effects)

		slice := appendUnique(nil, s.unified.Slice(c))
		total := s.unified.Totals.For(c)
		s.Results = slice
		s.Total = total
		s.Err = ""
		s.Phase = PhaseLoaded
		s.FromCache = true
		// Grouped slices are previews, not pages: the page-size guard does not apply.
		s.Pagination.HasMore = computeHasMore(len(slice), total, nil, s.cfg.PageSize, s.cfg.PageSize)
		return s, effects, true
	}

	if searchable(s) && (s.HasSearched || s.Phase == PhaseDebouncing) {
		if s.Phase == PhaseDebouncing {
			effects = append(effects, CancelDebounce{})
		}
		s = beginSearch(s)
		s, effects = startFetch(s, 1, false, effects)
		return s, effects, true
	}

	// Nothing to fetch for c yet; the previous category's results must not
	// stay on screen under the new one.
	s.Results = nil
	s.Total = 0
	s.Pagination = Pagination{Page: 1, Limit: s.cfg.PageSize}
	s.HasSearched = false
	s.Err = ""
	return s, effects, true
}

func onLoadMore(s State) (State, []Effect, bool) {
	if !s.Pagination.HasMore || s.pending != nil || s.Phase == PhaseDebouncing ||
		normalizeQuery(s.Query) == "" || len(s.Results) >= MaxResults {
		return s, nil, false
	}

	page := s.Pagination.Page + 1
	if s.FromCache {
		page = len(s.Results)/s.cfg.PageSize + 1
	}

	s, effects := startFetch(s, page, true, nil)
	return s, effects, true
}

func onRefresh(s State) (State, []Effect, bool) {
	if !searchable(s) {
		return s, nil, false
	}

	var effects []Effect
	if s.Phase == PhaseDebouncing {
		effects = append(effects, CancelDebounce{})
	}
	s.unified = nil
	s.unifiedQuery = ""
	s.HasSearched = true
	s, effects = startFetch(s, 1, false, effects)
	return s, effects, true
}

func onCleared(s State) (State, []Effect, bool) {
	effects := []Effect{CancelDebounce{}}
	s, effects = cancelPending(s, effects)
	s.Query = ""
	return reset(s), effects, true
}

func onResponse(s State, e ResponseReceived) (State, []Effect, bool) {
	if s.pending == nil || e.Token != s.pending.Token {
		return s, nil, false
	}

	req := *s.pending
	s.pending = nil
	s.Loading = false
	s.LoadingMore = false
	s.Phase = PhaseLoaded
	s.Err = ""

	page := e.Page
	if page == nil {
		page = &searchapi.Page{Category: req.Params.Category}
	}

	if req.Append {
		if !page.Success {
			s.Pagination.HasMore = false
			return s, nil, true
		}
		s.Results = appendUnique(s.Results, page.Items)
		s.Pagination.Page = req.Params.Page
		s.FromCache = false
		if page.Total > 0 {
			s.Total = page.Total
		}
		s.Pagination.HasMore = computeHasMore(len(s.Results), s.Total, page.Pagination, len(page.Items), req.Params.Limit)
		return s, nil, true
	}

	s.Pagination.Page = 1
	s.FromCache = false
	s.Results = appendUnique(nil, page.Items)
	s.Total = page.Total
	if !page.Success {
		s.Results = nil
		s.Total = 0
		s.Pagination.HasMore = false
		return s, nil, true
	}

	if page.Unified != nil {
		s.unified = page.Unified
		s.unifiedQuery = req.Params.Query
		s.Suggestions = page.Suggestions
	}
	s.Pagination.HasMore = computeHasMore(len(s.Results), s.Total, page.Pagination, len(page.Items), req.Params.Limit)

	return s, []Effect{RecordHistory{Query: req.Params.Query}}, true
}

func onFailure(s State, e ResponseFailed) (State, []Effect, bool) {
	if s.pending == nil || e.Token != s.pending.Token {
		return s, nil, false
	}

	req := *s.pending
	s.pending = nil
	s.Loading = false
	s.LoadingMore = false

	if errors.Is(e.Err, context.Canceled) {
		s.Phase = settledPhase(s)
		return s, nil, true
	}

	s.Phase = PhaseFailed
	s.Err = s.cfg.ErrorMessage
	if !req.Append {
		s.Results = nil
		s.Total = 0
		s.Pagination.HasMore = false
	}
	return s, nil, true
}

func onDisposed(s State) (State, []Effect, bool) {
	effects := []Effect{CancelDebounce{}}
	s, effects = cancelPending(s, effects)
	s.disposed = true
	s.Phase = settledPhase(s)
	return s, effects, true
}

// searchable reports whether the current query is long enough to search.
func searchable(s State) bool {
	q := normalizeQuery(s.Query)
	return q != "" && len([]rune(q)) >= s.cfg.MinQueryLength
}

// settledPhase is the phase to show once nothing is pending.
func settledPhase(s State) Phase {
	switch {
	case s.Err != "":
		return PhaseFailed
	case s.HasSearched:
		return PhaseLoaded
	default:
		return PhaseIdle
	}
}

func cancelPending(s State, effects []Effect) (State, []Effect) {
	if s.pending == nil {
		return s, effects
	}
	s.pending = nil
	s.Loading = false
	s.LoadingMore = false
	return s, append(effects, CancelFetch{})
}

// reset drops everything tied to the previous query. The category is kept.
func reset(s State) State {
	s.Results = nil
	s.Total = 0
	s.Pagination = Pagination{Page: 1, Limit: s.cfg.PageSize}
	s.HasSearched = false
	s.Err = ""
	s.Suggestions = nil
	s.FromCache = false
	s.unified = nil
	s.unifiedQuery = ""
	s.Phase = PhaseIdle
	return s
}

// beginSearch prepares a fresh page-1 search of the current query: results
// are replaced and the cached general payload is kept only if it belongs
// to the same query.
func beginSearch(s State) State {
	if s.unifiedQuery != normalizeQuery(s.Query) {
		s.unified = nil
		s.unifiedQuery = ""
		s.Suggestions = nil
	}
	s.Results = nil
	s.Total = 0
	s.Pagination = Pagination{Page: 1, Limit: s.cfg.PageSize}
	s.FromCache = false
	s.HasSearched = true
	return s
}

// startFetch issues a request for page of the current query and category,
// superseding any in-flight one.
func startFetch(s State, page int, appendPage bool, effects []Effect) (State, []Effect) {
	s, effects = cancelPending(s, effects)

	s.token++
	req := Request{
		Token: s.token,
		Params: searchapi.Params{
			Query:    normalizeQuery(s.Query),
			Page:     page,
			Limit:    s.cfg.PageSize,
			Category: s.Category,
		},
		Append: appendPage,
	}
	s.pending = &req
	s.Phase = PhaseLoading
	s.Loading = !appendPage
	s.LoadingMore = appendPage
	s.Err = ""

	return s, append(effects, Fetch{Request: req})
}
