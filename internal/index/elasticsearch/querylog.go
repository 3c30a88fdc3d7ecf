package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
)

// QueryLogStore is the Elasticsearch-backed implementation of
// index.QueryLog, layered over the same client and query-log index.
type QueryLogStore struct {
	client *Client
}

var _ index.QueryLog = (*QueryLogStore)(nil)

// NewQueryLogStore creates a query-log store sharing the given client.
func NewQueryLogStore(client *Client) *QueryLogStore {
	return &QueryLogStore{client: client}
}

// Append records one executed search. The entry ID becomes the document ID
// so clicks can be attached later.
func (s *QueryLogStore) Append(ctx context.Context, entry *domain.QueryLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("append query log: marshal: %w", err)
	}

	res, err := s.client.es.Index(
		s.client.queryLogIndex,
		bytes.NewReader(data),
		s.client.es.Index.WithDocumentID(entry.ID),
		s.client.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("append query log: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(res.Body, res.Status(), "append query log")
	}
	return nil
}

// AttachClicks records click attribution on an earlier log entry.
func (s *QueryLogStore) AttachClicks(ctx context.Context, entryID string, productIDs []string) error {
	body, err := json.Marshal(map[string]any{
		"doc": map[string]any{"clickedProductIds": productIDs},
	})
	if err != nil {
		return fmt.Errorf("attach clicks: marshal: %w", err)
	}

	res, err := s.client.es.Update(
		s.client.queryLogIndex,
		entryID,
		bytes.NewReader(body),
		s.client.es.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("attach clicks: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(res.Body, res.Status(), "attach clicks")
	}

	s.client.logger.Debug("clicks attached",
		slog.String("entry_id", entryID),
		slog.Int("products", len(productIDs)),
	)
	return nil
}

// Trending returns the most frequent query terms of the last 24 hours.
func (s *QueryLogStore) Trending(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	body := map[string]any{
		"size": 0,
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{"gte": "now-24h"},
			},
		},
		"aggregations": map[string]any{
			"trending": map[string]any{
				"terms": map[string]any{
					"field": "query.keyword",
					"size":  limit,
				},
			},
		},
	}

	resp, err := s.runAggQuery(ctx, body, "trending queries")
	if err != nil {
		return nil, err
	}

	var aggs struct {
		Trending esTermsAgg `json:"trending"`
	}
	if err := json.Unmarshal(resp.Aggregations, &aggs); err != nil {
		return nil, fmt.Errorf("trending queries: decode aggregations: %w", err)
	}

	return termsToQueryCounts(aggs.Trending), nil
}

// Metrics aggregates query-log activity between two date-math bounds.
func (s *QueryLogStore) Metrics(ctx context.Context, from, to string) (*domain.SearchMetrics, error) {
	body := map[string]any{
		"size": 0,
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{"gte": from, "lte": to},
			},
		},
		"aggregations": map[string]any{
			"total_searches": map[string]any{
				"value_count": map[string]any{"field": "query.keyword"},
			},
			"unique_searches": map[string]any{
				"cardinality": map[string]any{"field": "query.keyword"},
			},
			"avg_result_count": map[string]any{
				"avg": map[string]any{"field": "resultCount"},
			},
			"zero_results": map[string]any{
				"filter": map[string]any{
					"term": map[string]any{"resultCount": 0},
				},
			},
			"searches_by_hour": map[string]any{
				"date_histogram": map[string]any{
					"field":             "timestamp",
					"calendar_interval": "hour",
				},
			},
			"top_queries": map[string]any{
				"terms": map[string]any{
					"field": "query.keyword",
					"size":  10,
				},
			},
		},
	}

	resp, err := s.runAggQuery(ctx, body, "search metrics")
	if err != nil {
		return nil, err
	}

	var aggs struct {
		TotalSearches  esValueAgg `json:"total_searches"`
		UniqueSearches esValueAgg `json:"unique_searches"`
		AvgResultCount esValueAgg `json:"avg_result_count"`
		ZeroResults    struct {
			DocCount int `json:"doc_count"`
		} `json:"zero_results"`
		SearchesByHour struct {
			Buckets []struct {
				KeyAsString string `json:"key_as_string"`
				Count       int    `json:"doc_count"`
			} `json:"buckets"`
		} `json:"searches_by_hour"`
		TopQueries esTermsAgg `json:"top_queries"`
	}
	if err := json.Unmarshal(resp.Aggregations, &aggs); err != nil {
		return nil, fmt.Errorf("search metrics: decode aggregations: %w", err)
	}

	metrics := &domain.SearchMetrics{
		ZeroResultSearches: aggs.ZeroResults.DocCount,
		SearchesByHour:     make([]domain.HourBucket, 0, len(aggs.SearchesByHour.Buckets)),
		TopQueries:         termsToQueryCounts(aggs.TopQueries),
	}
	if aggs.TotalSearches.Value != nil {
		metrics.TotalSearches = int(*aggs.TotalSearches.Value)
	}
	if aggs.UniqueSearches.Value != nil {
		metrics.UniqueSearches = int(*aggs.UniqueSearches.Value)
	}
	if aggs.AvgResultCount.Value != nil {
		metrics.AvgResultCount = *aggs.AvgResultCount.Value
	}
	if metrics.TotalSearches > 0 {
		metrics.ZeroResultRate = float64(metrics.ZeroResultSearches) / float64(metrics.TotalSearches)
	}
	for _, b := range aggs.SearchesByHour.Buckets {
		metrics.SearchesByHour = append(metrics.SearchesByHour, domain.HourBucket{
			Hour:  b.KeyAsString,
			Count: b.Count,
		})
	}
	return metrics, nil
}

// ZeroResultQueries returns the most frequent queries that matched nothing,
// the primary signal for catalog and synonym gaps.
func (s *QueryLogStore) ZeroResultQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	body := map[string]any{
		"size": 0,
		"query": map[string]any{
			"term": map[string]any{"resultCount": 0},
		},
		"aggregations": map[string]any{
			"zero_queries": map[string]any{
				"terms": map[string]any{
					"field": "query.keyword",
					"size":  limit,
				},
			},
		},
	}

	resp, err := s.runAggQuery(ctx, body, "zero result queries")
	if err != nil {
		return nil, err
	}

	var aggs struct {
		ZeroQueries esTermsAgg `json:"zero_queries"`
	}
	if err := json.Unmarshal(resp.Aggregations, &aggs); err != nil {
		return nil, fmt.Errorf("zero result queries: decode aggregations: %w", err)
	}

	return termsToQueryCounts(aggs.ZeroQueries), nil
}

// ClickThrough summarizes click attribution over the whole log.
func (s *QueryLogStore) ClickThrough(ctx context.Context) (*domain.ClickThroughStats, error) {
	body := map[string]any{
		"size": 0,
		"aggregations": map[string]any{
			"with_clicks": map[string]any{
				"filter": map[string]any{
					"exists": map[string]any{"field": "clickedProductIds"},
				},
			},
		},
	}

	resp, err := s.runAggQuery(ctx, body, "click through")
	if err != nil {
		return nil, err
	}

	var aggs struct {
		WithClicks struct {
			DocCount int `json:"doc_count"`
		} `json:"with_clicks"`
	}
	if err := json.Unmarshal(resp.Aggregations, &aggs); err != nil {
		return nil, fmt.Errorf("click through: decode aggregations: %w", err)
	}

	stats := &domain.ClickThroughStats{
		SearchesWithClicks: aggs.WithClicks.DocCount,
		TotalSearches:      resp.Total,
	}
	if stats.TotalSearches > 0 {
		stats.ClickThroughRate = float64(stats.SearchesWithClicks) / float64(stats.TotalSearches)
	}
	return stats, nil
}

// aggResponse carries the raw aggregations of a size-zero query plus the
// matched-document total.
type aggResponse struct {
	Total        int
	Aggregations json.RawMessage
}

func (s *QueryLogStore) runAggQuery(ctx context.Context, body map[string]any, op string) (*aggResponse, error) {
	body["track_total_hits"] = true
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal query: %w", op, err)
	}

	res, err := s.client.es.Search(
		s.client.es.Search.WithIndex(s.client.queryLogIndex),
		s.client.es.Search.WithBody(bytes.NewReader(data)),
		s.client.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(res.Body, res.Status(), op)
	}

	var resp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations json.RawMessage `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	return &aggResponse{Total: resp.Hits.Total.Value, Aggregations: resp.Aggregations}, nil
}

func termsToQueryCounts(agg esTermsAgg) []domain.QueryCount {
	counts := make([]domain.QueryCount, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		key, ok := b.Key.(string)
		if !ok {
			key = fmt.Sprintf("%v", b.Key)
		}
		counts = append(counts, domain.QueryCount{Query: key, Count: b.Count})
	}
	return counts
}
