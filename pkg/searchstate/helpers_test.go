package searchstate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

func items(t searchapi.ItemType, from, n int) []searchapi.Item {
	out := make([]searchapi.Item, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, searchapi.Item{ID: fmt.Sprintf("%s-%d", t, i), Type: t, Title: fmt.Sprintf("%s %d", t, i)})
	}
	return out
}

func categoryPage(c searchapi.Category, list []searchapi.Item, total int, hasMore bool) *searchapi.Page {
	return &searchapi.Page{
		Success:    true,
		Category:   c,
		Items:      list,
		Total:      total,
		Pagination: &searchapi.Pagination{Page: 1, Limit: DefaultPageSize, Total: total, HasMore: hasMore},
	}
}

func generalPage(unified []searchapi.Item, grouped map[searchapi.Category][]searchapi.Item, totals searchapi.Totals) *searchapi.Page {
	u := &searchapi.Unified{Items: unified, Grouped: grouped, Totals: totals, HasMore: totals.For(searchapi.CategoryAll) > len(unified)}
	return &searchapi.Page{
		Success:     true,
		Category:    searchapi.CategoryAll,
		Items:       unified,
		Total:       totals.For(searchapi.CategoryAll),
		Pagination:  &searchapi.Pagination{Page: 1, Limit: DefaultPageSize, HasMore: u.HasMore},
		Unified:     u,
		Suggestions: []string{"suggestion"},
	}
}

// fetchOf returns the single Fetch among effects.
func fetchOf(t *testing.T, effects []Effect) Request {
	t.Helper()
	var found []Request
	for _, e := range effects {
		if f, ok := e.(Fetch); ok {
			found = append(found, f.Request)
		}
	}
	require.Len(t, found, 1, "effects: %#v", effects)
	return found[0]
}

// fired returns the TimerFired the ScheduleDebounce among effects delivers.
func fired(t *testing.T, effects []Effect) TimerFired {
	t.Helper()
	for _, e := range effects {
		if sd, ok := e.(ScheduleDebounce); ok {
			return TimerFired{Text: sd.Text, Seq: sd.Seq}
		}
	}
	require.Fail(t, "no debounce scheduled", "effects: %#v", effects)
	return TimerFired{}
}

func hasFetch(effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(Fetch); ok {
			return true
		}
	}
	return false
}

func hasEffect[E Effect](effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(E); ok {
			return true
		}
	}
	return false
}

func keys(list []searchapi.Item) map[string]int {
	out := make(map[string]int, len(list))
	for _, it := range list {
		out[it.Key()]++
	}
	return out
}

// searched runs a submitted search for q and answers it with page.
func searched(t *testing.T, s State, q string, page *searchapi.Page) State {
	t.Helper()
	s, effects := Reduce(s, Submitted{Text: q})
	req := fetchOf(t, effects)
	s, _ = Reduce(s, ResponseReceived{Token: req.Token, Page: page})
	return s
}
