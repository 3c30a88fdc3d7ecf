package elasticsearch

import (
	"strings"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
)

// searchFields are the weighted multi-match targets for the text clause.
// Name carries the highest weight, the edge-n-gram subfield catches partial
// words, and brand outranks plain description matches.
var searchFields = []string{
	"name^3",
	"name.autocomplete^2",
	"description",
	"brand^2",
	"category.name",
	"tags",
}

// fuzzyPrefixLength exempts the first characters from fuzzy matching to
// bound false positives.
const fuzzyPrefixLength = 2

// buildSearchBody constructs the full query body: text clause, filter
// clauses, facet aggregations, sort, and pagination. Filters live in the
// bool filter context so they never affect relevance scores, and facets are
// attached unconditionally so a zero-size request still aggregates.
func buildSearchBody(req *domain.SearchRequest, fuzzy bool) map[string]any {
	page := req.Page
	if page < 1 {
		page = 1
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []any{buildTextClause(req.Query, fuzzy)},
				"filter": buildFilters(req),
			},
		},
		"from":             (page - 1) * req.PerPage,
		"size":             req.PerPage,
		"track_total_hits": true,
		"aggregations":     buildAggregations(),
	}

	if sortClause := buildSort(req.SortBy); sortClause != nil {
		body["sort"] = sortClause
	}

	return body
}

// buildTextClause returns the weighted multi-match for non-blank text, or
// match_all so that filter/facet-only calls still execute.
func buildTextClause(query string, fuzzy bool) map[string]any {
	if strings.TrimSpace(query) == "" {
		return map[string]any{"match_all": map[string]any{}}
	}

	var fuzziness any = 0
	if fuzzy {
		fuzziness = "AUTO"
	}

	return map[string]any{
		"multi_match": map[string]any{
			"query":         query,
			"fields":        searchFields,
			"type":          "best_fields",
			"fuzziness":     fuzziness,
			"prefix_length": fuzzyPrefixLength,
		},
	}
}

// buildFilters returns the AND-combined filter clauses. Active-only is
// always applied; inactive products stay in the index and are excluded here
// at query time.
func buildFilters(req *domain.SearchRequest) []any {
	filters := []any{
		map[string]any{"term": map[string]any{"isActive": true}},
	}

	if req.InStock {
		filters = append(filters, map[string]any{
			"range": map[string]any{"stockQuantity": map[string]any{"gt": 0}},
		})
	}

	if req.CategoryID != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"category.id": req.CategoryID},
		})
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		priceRange := map[string]any{}
		if req.MinPrice != nil {
			priceRange["gte"] = *req.MinPrice
		}
		if req.MaxPrice != nil {
			priceRange["lte"] = *req.MaxPrice
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"price": priceRange},
		})
	}

	if len(req.Brands) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"brand.keyword": req.Brands},
		})
	}

	if len(req.Tags) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"tags": req.Tags},
		})
	}

	return filters
}

// buildAggregations returns the facet aggregations computed with every
// search: category and brand counts, the fixed price histogram, and price
// statistics.
func buildAggregations() map[string]any {
	return map[string]any{
		"categories": map[string]any{
			"terms": map[string]any{"field": "category.name.keyword", "size": 20},
		},
		"brands": map[string]any{
			"terms": map[string]any{"field": "brand.keyword", "size": 20},
		},
		"price_ranges": map[string]any{
			"range": map[string]any{
				"field": "price",
				"ranges": []any{
					map[string]any{"to": 500.0},
					map[string]any{"from": 500.0, "to": 1000.0},
					map[string]any{"from": 1000.0, "to": 2000.0},
					map[string]any{"from": 2000.0, "to": 5000.0},
					map[string]any{"from": 5000.0},
				},
			},
		},
		"avg_price": map[string]any{"avg": map[string]any{"field": "price"}},
		"min_price": map[string]any{"min": map[string]any{"field": "price"}},
		"max_price": map[string]any{"max": map[string]any{"field": "price"}},
	}
}

// buildSort maps a sort key to its clause. Unknown keys fall back to
// relevance. Popularity and rating use two-key tie-breaks.
func buildSort(sortBy string) []any {
	switch sortBy {
	case domain.SortPriceAsc:
		return []any{map[string]any{"price": "asc"}}
	case domain.SortPriceDesc:
		return []any{map[string]any{"price": "desc"}}
	case domain.SortNewest:
		return []any{map[string]any{"createdAt": "desc"}}
	case domain.SortPopular:
		return []any{
			map[string]any{"soldCount": "desc"},
			map[string]any{"views": "desc"},
		}
	case domain.SortRating:
		return []any{
			map[string]any{"averageRating": "desc"},
			map[string]any{"reviewCount": "desc"},
		}
	default:
		return []any{map[string]any{"_score": "desc"}}
	}
}
