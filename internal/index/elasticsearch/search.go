package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
)

// esSearchResponse decodes the parts of a search response we consume.
type esSearchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source domain.Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		Categories  esTermsAgg `json:"categories"`
		Brands      esTermsAgg `json:"brands"`
		PriceRanges struct {
			Buckets []struct {
				Key   string   `json:"key"`
				From  *float64 `json:"from"`
				To    *float64 `json:"to"`
				Count int      `json:"doc_count"`
			} `json:"buckets"`
		} `json:"price_ranges"`
		AvgPrice esValueAgg `json:"avg_price"`
		MinPrice esValueAgg `json:"min_price"`
		MaxPrice esValueAgg `json:"max_price"`
	} `json:"aggregations"`
}

type esTermsAgg struct {
	Buckets []struct {
		Key   any `json:"key"`
		Count int `json:"doc_count"`
	} `json:"buckets"`
}

type esValueAgg struct {
	Value *float64 `json:"value"`
}

func (a esTermsAgg) facetBuckets() []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(a.Buckets))
	for _, b := range a.Buckets {
		key, ok := b.Key.(string)
		if !ok {
			key = fmt.Sprintf("%v", b.Key)
		}
		buckets = append(buckets, domain.FacetBucket{Key: key, Count: b.Count})
	}
	return buckets
}

// Search executes a ranked, filtered, faceted query against the products
// index. Facets are computed even when the requested page size is zero.
func (c *Client) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	body, err := json.Marshal(buildSearchBody(req, c.fuzzy))
	if err != nil {
		return nil, fmt.Errorf("search: marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithIndex(c.productsIndex),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(res.Body, res.Status(), "search")
	}

	var resp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	result := &domain.SearchResult{
		Hits:    make([]domain.Hit, 0, len(resp.Hits.Hits)),
		Total:   resp.Hits.Total.Value,
		Page:    req.Page,
		PerPage: req.PerPage,
		TookMs:  resp.Took,
		Facets:  decodeFacets(&resp),
	}
	if result.Page < 1 {
		result.Page = 1
	}
	if req.PerPage > 0 {
		result.TotalPages = (result.Total + req.PerPage - 1) / req.PerPage
	}

	for _, h := range resp.Hits.Hits {
		hit := domain.Hit{Document: h.Source}
		if h.Source.ID == "" {
			hit.Document.ID = h.ID
		}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		result.Hits = append(result.Hits, hit)
	}

	c.logger.Debug("search executed",
		slog.String("query", req.Query),
		slog.Int("total", result.Total),
		slog.Int64("took_ms", result.TookMs),
	)
	return result, nil
}

func decodeFacets(resp *esSearchResponse) domain.Facets {
	facets := domain.Facets{
		Categories:  resp.Aggregations.Categories.facetBuckets(),
		Brands:      resp.Aggregations.Brands.facetBuckets(),
		PriceRanges: make([]domain.PriceRangeBucket, 0, len(resp.Aggregations.PriceRanges.Buckets)),
		PriceStats: domain.PriceStats{
			Avg: resp.Aggregations.AvgPrice.Value,
			Min: resp.Aggregations.MinPrice.Value,
			Max: resp.Aggregations.MaxPrice.Value,
		},
	}
	for _, b := range resp.Aggregations.PriceRanges.Buckets {
		facets.PriceRanges = append(facets.PriceRanges, domain.PriceRangeBucket{
			Key:   b.Key,
			From:  b.From,
			To:    b.To,
			Count: b.Count,
		})
	}
	return facets
}

// Suggest runs the completion suggester on name.suggest and returns
// deduplicated suggestion strings.
func (c *Client) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	body := map[string]any{
		"suggest": map[string]any{
			"product_suggest": map[string]any{
				"prefix": prefix,
				"completion": map[string]any{
					"field":           "name.suggest",
					"size":            limit,
					"skip_duplicates": true,
					"fuzzy": map[string]any{
						"fuzziness": "AUTO",
					},
				},
			},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("suggest: marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithIndex(c.productsIndex),
		c.es.Search.WithBody(bytes.NewReader(data)),
		c.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(res.Body, res.Status(), "suggest")
	}

	var resp struct {
		Suggest struct {
			ProductSuggest []struct {
				Options []struct {
					Text string `json:"text"`
				} `json:"options"`
			} `json:"product_suggest"`
		} `json:"suggest"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("suggest: decode response: %w", err)
	}

	suggestions := make([]string, 0, limit)
	for _, s := range resp.Suggest.ProductSuggest {
		for _, opt := range s.Options {
			suggestions = append(suggestions, opt.Text)
		}
	}
	return suggestions, nil
}

// SearchAsYouType matches the edge-n-gram name subfield and returns
// lightweight hits for incremental typing. Only active products match.
func (c *Client) SearchAsYouType(ctx context.Context, prefix string, limit int) ([]domain.LiteHit, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":  prefix,
							"fields": []string{"name.autocomplete"},
							"type":   "bool_prefix",
						},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"isActive": true}},
				},
			},
		},
		"size":    limit,
		"_source": []string{"id", "name", "price", "images", "category"},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("instant search: marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithIndex(c.productsIndex),
		c.es.Search.WithBody(bytes.NewReader(data)),
		c.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("instant search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(res.Body, res.Status(), "instant search")
	}

	var resp struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					ID       string                   `json:"id"`
					Name     string                   `json:"name"`
					Price    float64                  `json:"price"`
					Images   []string                 `json:"images"`
					Category *domain.DocumentCategory `json:"category"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("instant search: decode response: %w", err)
	}

	hits := make([]domain.LiteHit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hit := domain.LiteHit{
			ID:       h.Source.ID,
			Name:     h.Source.Name,
			Price:    h.Source.Price,
			Images:   h.Source.Images,
			Category: h.Source.Category,
		}
		if hit.ID == "" {
			hit.ID = h.ID
		}
		hits = append(hits, hit)
	}

	c.logger.Debug("instant search executed",
		slog.String("prefix", prefix),
		slog.Int("hits", len(hits)),
	)
	return hits, nil
}
