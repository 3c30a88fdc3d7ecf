// Package service implements the business logic over the index, the query
// log, and the sync orchestrator.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/query"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100

	defaultSuggestLimit = 10
	maxSuggestLimit     = 20

	// minQueryLength is the shortest accepted search text. Shorter search
	// queries are rejected; shorter suggest prefixes return nothing.
	minQueryLength = 2

	// queryLogTimeout bounds the detached fire-and-forget log append.
	queryLogTimeout = 5 * time.Second
)

// SearchService executes searches and records them in the query log.
type SearchService struct {
	index    index.Index
	queryLog index.QueryLog
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewSearchService creates a search service.
func NewSearchService(idx index.Index, queryLog index.QueryLog, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:    idx,
		queryLog: queryLog,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Search validates and executes one search, then appends it to the query
// log without blocking the response. The log entry ID is returned with the
// result so the client can attribute clicks later.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	req.Query = strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(req.Query) < minQueryLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("query must be at least %d characters", minQueryLength))
	}
	if err := normalize(req); err != nil {
		return nil, err
	}

	result, err := s.index.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result.QueryLogID = s.appendQueryLog(ctx, req, result.Total)

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", req.Query),
		slog.Int("total", result.Total),
		slog.Int64("took_ms", result.TookMs),
	)
	return result, nil
}

// Filters returns the facets for the given filter set without fetching any
// hits. The zero page size skips document retrieval entirely.
func (s *SearchService) Filters(ctx context.Context, req *domain.SearchRequest) (*domain.Facets, error) {
	req.Query = strings.TrimSpace(req.Query)
	req.Page = 1
	req.PerPage = 0

	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	result, err := s.index.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}
	return &result.Facets, nil
}

// Suggest returns completion strings for a prefix. Prefixes shorter than
// the minimum return an empty list rather than an error; clients call this
// on every keystroke.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minQueryLength {
		return []string{}, nil
	}

	suggestions, err := s.index.Suggest(ctx, prefix, clampLimit(limit, defaultSuggestLimit, maxSuggestLimit))
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// InstantSearch returns lightweight hits for incremental typing. Short
// prefixes return an empty list.
func (s *SearchService) InstantSearch(ctx context.Context, prefix string, limit int) ([]domain.LiteHit, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minQueryLength {
		return []domain.LiteHit{}, nil
	}

	hits, err := s.index.SearchAsYouType(ctx, prefix, clampLimit(limit, defaultSuggestLimit, maxSuggestLimit))
	if err != nil {
		return nil, fmt.Errorf("instant search: %w", err)
	}
	if hits == nil {
		hits = []domain.LiteHit{}
	}
	return hits, nil
}

// NaturalSearch parses a free-text phrase into structured filters and
// executes the resulting search. The parsed breakdown is returned alongside
// the result so clients can show what was understood.
func (s *SearchService) NaturalSearch(ctx context.Context, phrase string, page, perPage int) (*query.Parsed, *domain.SearchResult, error) {
	phrase = strings.TrimSpace(phrase)
	if utf8.RuneCountInString(phrase) < minQueryLength {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("query must be at least %d characters", minQueryLength))
	}

	parsed := query.Parse(phrase)

	req := &domain.SearchRequest{
		Query:    parsed.Query(),
		Page:     page,
		PerPage:  perPage,
		MinPrice: parsed.MinPrice,
		MaxPrice: parsed.MaxPrice,
		Brands:   parsed.Brands,
	}
	// Colors and sizes live in free-form attributes, not mapped filters,
	// so they stay in the text query.
	if len(parsed.Colors) > 0 || len(parsed.Sizes) > 0 {
		terms := append(append([]string{req.Query}, parsed.Colors...), parsed.Sizes...)
		req.Query = strings.TrimSpace(strings.Join(terms, " "))
	}
	if err := normalize(req); err != nil {
		return nil, nil, err
	}

	result, err := s.index.Search(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("natural search: %w", err)
	}

	result.QueryLogID = s.appendQueryLog(ctx, &domain.SearchRequest{Query: phrase, UserID: req.UserID}, result.Total)
	return parsed, result, nil
}

// TrackClick attributes clicked products to an earlier search.
func (s *SearchService) TrackClick(ctx context.Context, queryLogID string, productIDs []string) error {
	if queryLogID == "" {
		return apperrors.InvalidInput("query_log_id is required")
	}
	if len(productIDs) == 0 {
		return apperrors.InvalidInput("product_ids must not be empty")
	}

	if err := s.queryLog.AttachClicks(ctx, queryLogID, productIDs); err != nil {
		return fmt.Errorf("track click: %w", err)
	}
	return nil
}

// appendQueryLog records the search in the background and returns the entry
// ID. Logging failures never affect the search response.
func (s *SearchService) appendQueryLog(ctx context.Context, req *domain.SearchRequest, total int) string {
	if s.queryLog == nil {
		return ""
	}

	entry := &domain.QueryLogEntry{
		ID:          s.newID(),
		Query:       req.Query,
		UserID:      req.UserID,
		ResultCount: total,
		Timestamp:   s.now().UTC(),
	}

	logger := s.logger
	go func() {
		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryLogTimeout)
		defer cancel()

		if err := s.queryLog.Append(logCtx, entry); err != nil {
			logger.Warn("query log append failed",
				slog.String("query", entry.Query),
				slog.String("error", err.Error()),
			)
		}
	}()

	return entry.ID
}

func normalize(req *domain.SearchRequest) error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage <= 0 {
		req.PerPage = defaultPerPage
	}
	if req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortRelevance
	}
	if !domain.IsValidSort(req.SortBy) {
		return apperrors.InvalidInput("sort must be one of: " + strings.Join(domain.ValidSortKeys(), ", "))
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return apperrors.InvalidInput("min_price must not be negative")
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return apperrors.InvalidInput("max_price must not be negative")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return apperrors.InvalidInput("min_price must not exceed max_price")
	}
	return nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// TrendingService caches trending query lookups in Redis so the hot public
// endpoint does not aggregate the whole log on every request.
type TrendingService struct {
	queryLog index.QueryLog
	cache    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

// NewTrendingService creates a trending service. The cache client may be
// nil, in which case every call aggregates directly.
func NewTrendingService(queryLog index.QueryLog, cache *redis.Client, logger *slog.Logger) *TrendingService {
	return &TrendingService{
		queryLog: queryLog,
		cache:    cache,
		ttl:      5 * time.Minute,
		logger:   logger,
	}
}

// Trending returns the most frequent queries of the last 24 hours, cached
// for a few minutes.
func (s *TrendingService) Trending(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	limit = clampLimit(limit, defaultSuggestLimit, maxSuggestLimit)
	key := fmt.Sprintf("search:trending:%d", limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var counts []domain.QueryCount
			if err := json.Unmarshal(cached, &counts); err == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.queryLog.Trending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	if counts == nil {
		counts = []domain.QueryCount{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
				s.logger.Warn("trending cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return counts, nil
}
