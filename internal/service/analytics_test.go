package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index/memory"
)

func seededQueryLog(t *testing.T) *memory.Engine {
	t.Helper()
	engine := memory.New()
	now := time.Now().UTC()
	entries := []domain.QueryLogEntry{
		{ID: "q1", Query: "headphones", ResultCount: 5, Timestamp: now.Add(-time.Hour)},
		{ID: "q2", Query: "headphones", ResultCount: 5, Timestamp: now.Add(-2 * time.Hour)},
		{ID: "q3", Query: "ghost product", ResultCount: 0, Timestamp: now.Add(-3 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, engine.Append(context.Background(), &entries[i]))
	}
	return engine
}

func TestMetrics_Defaults(t *testing.T) {
	svc := NewAnalyticsService(seededQueryLog(t), testLogger())

	metrics, err := svc.Metrics(context.Background(), "", "")

	require.NoError(t, err)
	assert.Equal(t, 3, metrics.TotalSearches)
	assert.Equal(t, 2, metrics.UniqueSearches)
	assert.Equal(t, 1, metrics.ZeroResultSearches)
}

func TestMetrics_RejectsArbitraryExpressions(t *testing.T) {
	svc := NewAnalyticsService(seededQueryLog(t), testLogger())

	for _, expr := range []string{"yesterday", "now-7", "2025-01-01", "now-7d/d OR 1=1"} {
		_, err := svc.Metrics(context.Background(), expr, "now")
		require.Error(t, err, expr)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	}
}

func TestMetrics_AcceptsDateMath(t *testing.T) {
	svc := NewAnalyticsService(seededQueryLog(t), testLogger())

	for _, expr := range []string{"now", "now-24h", "now-7d/d", "now-1w", "now-1M", "now-1y"} {
		_, err := svc.Metrics(context.Background(), expr, "now")
		assert.NoError(t, err, expr)
	}
}

func TestZeroResults(t *testing.T) {
	svc := NewAnalyticsService(seededQueryLog(t), testLogger())

	counts, err := svc.ZeroResults(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "ghost product", counts[0].Query)
}

func TestClickThrough(t *testing.T) {
	engine := seededQueryLog(t)
	require.NoError(t, engine.AttachClicks(context.Background(), "q1", []string{"p1"}))
	svc := NewAnalyticsService(engine, testLogger())

	stats, err := svc.ClickThrough(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSearches)
	assert.Equal(t, 1, stats.SearchesWithClicks)
	assert.InDelta(t, 1.0/3.0, stats.ClickThroughRate, 1e-9)
}
