package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
)

const (
	defaultMetricsFrom = "now-7d/d"
	defaultMetricsTo   = "now"

	defaultZeroResultLimit = 20
	maxZeroResultLimit     = 100
)

// dateMathRe accepts the date expressions passed through to the query log:
// "now" with an optional offset and optional day rounding.
var dateMathRe = regexp.MustCompile(`^now(-\d+[hdwMy])?(/d)?$`)

// AnalyticsService answers admin questions about search behavior from the
// query log.
type AnalyticsService struct {
	queryLog index.QueryLog
	logger   *slog.Logger
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(queryLog index.QueryLog, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{queryLog: queryLog, logger: logger}
}

// Metrics aggregates query-log activity over a date range. Blank bounds
// default to the last seven days.
func (s *AnalyticsService) Metrics(ctx context.Context, from, to string) (*domain.SearchMetrics, error) {
	if from == "" {
		from = defaultMetricsFrom
	}
	if to == "" {
		to = defaultMetricsTo
	}
	if !dateMathRe.MatchString(from) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid from expression %q", from))
	}
	if !dateMathRe.MatchString(to) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid to expression %q", to))
	}

	metrics, err := s.queryLog.Metrics(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("search metrics: %w", err)
	}

	s.logger.DebugContext(ctx, "search metrics computed",
		slog.String("from", from),
		slog.String("to", to),
		slog.Int("total_searches", metrics.TotalSearches),
	)
	return metrics, nil
}

// ZeroResults returns the most frequent queries that matched nothing.
func (s *AnalyticsService) ZeroResults(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	counts, err := s.queryLog.ZeroResultQueries(ctx, clampLimit(limit, defaultZeroResultLimit, maxZeroResultLimit))
	if err != nil {
		return nil, fmt.Errorf("zero result queries: %w", err)
	}
	if counts == nil {
		counts = []domain.QueryCount{}
	}
	return counts, nil
}

// ClickThrough summarizes click attribution over the whole query log.
func (s *AnalyticsService) ClickThrough(ctx context.Context) (*domain.ClickThroughStats, error) {
	stats, err := s.queryLog.ClickThrough(ctx)
	if err != nil {
		return nil, fmt.Errorf("click through stats: %w", err)
	}
	return stats, nil
}
