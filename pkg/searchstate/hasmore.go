package searchstate

import "github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"

// computeHasMore is the single rule deciding whether another page exists:
//
//	loaded < min(total, MaxResults) && backendHasMore && lastPageCount >= limit
//
// An unknown total (0) counts as MaxResults. backendHasMore is the
// pagination flag when the backend sent one, otherwise total > loaded.
func computeHasMore(loaded, total int, pagination *searchapi.Pagination, lastPageCount, limit int) bool {
	ceiling := total
	if ceiling <= 0 || ceiling > MaxResults {
		ceiling = MaxResults
	}

	backendHasMore := total > loaded
	if pagination != nil {
		backendHasMore = pagination.HasMore
	}

	return loaded < ceiling && backendHasMore && lastPageCount >= limit
}

// appendUnique appends the items of page whose key is not yet present,
// stopping at MaxResults. It never modifies existing.
func appendUnique(existing, page []searchapi.Item) []searchapi.Item {
	seen := make(map[string]struct{}, len(existing)+len(page))
	for _, it := range existing {
		seen[it.Key()] = struct{}{}
	}

	out := make([]searchapi.Item, len(existing), min(len(existing)+len(page), MaxResults))
	copy(out, existing)
	for _, it := range page {
		if len(out) >= MaxResults {
			break
		}
		if _, dup := seen[it.Key()]; dup {
			continue
		}
		seen[it.Key()] = struct{}{}
		out = append(out, it)
	}
	return out
}
