package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

// IndexSpec describes how one category is searched.
type IndexSpec struct {
	Index string
	// Fields are the multi_match fields, with optional ^boost.
	Fields []string
	// Source lists the document fields returned to clients.
	Source []string
	// FilterField is matched against the request filter, if set.
	FilterField string
}

// DefaultIndexSpecs returns the field layout of every category for the
// given index names.
func DefaultIndexSpecs(indices map[searchapi.Category]string) map[searchapi.Category]IndexSpec {
	return map[searchapi.Category]IndexSpec{
		searchapi.CategoryUsers: {
			Index:  indices[searchapi.CategoryUsers],
			Fields: []string{"username^2", "display_name", "bio"},
			Source: []string{"id", "username", "display_name", "bio", "avatar_url"},
		},
		searchapi.CategoryBooks: {
			Index:  indices[searchapi.CategoryBooks],
			Fields: []string{"title^3", "author^2", "description", "genres"},
			Source: []string{"id", "title", "author", "cover_image", "published_year"},
		},
		searchapi.CategoryClubs: {
			Index:  indices[searchapi.CategoryClubs],
			Fields: []string{"name^2", "description"},
			Source: []string{"id", "name", "description", "cover_image", "member_count"},
		},
		searchapi.CategoryBookLists: {
			Index:  indices[searchapi.CategoryBookLists],
			Fields: []string{"name^2", "description"},
			Source: []string{"id", "name", "description", "cover_image", "book_count"},
		},
		searchapi.CategoryAuthors: {
			Index:       indices[searchapi.CategoryAuthors],
			Fields:      []string{"name^2", "bio", "genres"},
			Source:      []string{"id", "name", "bio", "photo_url"},
			FilterField: "genres",
		},
	}
}

type esSearchRepository struct {
	client *elasticsearch.Client
	specs  map[searchapi.Category]IndexSpec
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
func NewESSearchRepository(client *elasticsearch.Client, specs map[searchapi.Category]IndexSpec) SearchRepository {
	return &esSearchRepository{
		client: client,
		specs:  specs,
	}
}

func (r *esSearchRepository) Search(ctx context.Context, category searchapi.Category, query, filter string, offset, limit int) (*domain.CategoryResult, error) {
	spec, ok := r.specs[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	data, err := json.Marshal(buildQuery(spec, query, filter, offset, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(spec.Index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", category, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]json.RawMessage, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		if len(hit.Source) == 0 || !json.Valid(hit.Source) {
			continue
		}
		items = append(items, hit.Source)
	}

	return &domain.CategoryResult{Items: items, Total: result.Hits.Total.Value}, nil
}

func buildQuery(spec IndexSpec, query, filter string, offset, limit int) map[string]interface{} {
	match := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query,
			"fields":    spec.Fields,
			"fuzziness": "AUTO",
		},
	}

	q := match
	if spec.FilterField != "" && filter != "" {
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"must": match,
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{spec.FilterField: filter},
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"from":             offset,
		"size":             limit,
		"track_total_hits": true,
		"query":            q,
		"_source": map[string]interface{}{
			"includes": spec.Source,
		},
	}
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
