package searchstate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/kvstore"
)

const (
	// HistoryKey is the store key holding recent searches.
	HistoryKey = "search/recent"
	// MaxHistory is the number of recent searches kept.
	MaxHistory = 10
)

// pushHistory puts q first, removing case-insensitive duplicates.
func pushHistory(list []string, q string) []string {
	out := make([]string, 0, MaxHistory)
	out = append(out, q)
	for _, prev := range list {
		if len(out) == MaxHistory {
			break
		}
		if strings.EqualFold(prev, q) {
			continue
		}
		out = append(out, prev)
	}
	return out
}

func loadHistory(ctx context.Context, store kvstore.Store) ([]string, error) {
	var list []string
	err := kvstore.GetJSON(ctx, store, HistoryKey, &list)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading recent searches: %w", err)
	}
	return list, nil
}
