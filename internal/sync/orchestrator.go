// Package sync keeps the search index consistent with the product catalog.
// The catalog is the system of record; every operation here reads from it
// and writes derived documents to the index.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/catalog"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/document"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
)

var (
	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_sync_runs_total",
			Help: "Sync runs by operation and outcome.",
		},
		[]string{"operation", "status"},
	)
	syncedDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_sync_documents_total",
			Help: "Documents written to the index by sync operation.",
		},
		[]string{"operation"},
	)
	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_sync_duration_seconds",
			Help:    "Sync run duration by operation.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Orchestrator moves catalog state into the search index: one product at a
// time, incrementally by modification window, or as a full rebuild.
type Orchestrator struct {
	catalog catalog.Store
	index   index.Index
	logger  *slog.Logger

	// group collapses concurrent full-rebuild requests onto one run.
	group singleflight.Group

	now func() time.Time
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(store catalog.Store, idx index.Index, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog: store,
		index:   idx,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncOne reads one product from the catalog and upserts its document.
// Inactive products are indexed too; queries filter them out. A not-found
// catalog read propagates unchanged so callers can distinguish a missing
// product from an index failure.
func (o *Orchestrator) SyncOne(ctx context.Context, productID string) error {
	start := o.now()

	product, err := o.catalog.GetByID(ctx, productID)
	if err != nil {
		syncRuns.WithLabelValues("one", "error").Inc()
		return err
	}

	if err := o.index.IndexDocument(ctx, document.Build(product)); err != nil {
		syncRuns.WithLabelValues("one", "error").Inc()
		return fmt.Errorf("sync product %s: %w", productID, err)
	}

	syncRuns.WithLabelValues("one", "ok").Inc()
	syncedDocuments.WithLabelValues("one").Inc()
	syncDuration.WithLabelValues("one").Observe(o.now().Sub(start).Seconds())

	o.logger.InfoContext(ctx, "product synced",
		slog.String("product_id", productID),
		slog.Bool("active", product.IsActive),
	)
	return nil
}

// DeleteOne removes one product's document. Absent documents delete cleanly.
func (o *Orchestrator) DeleteOne(ctx context.Context, productID string) error {
	if err := o.index.DeleteDocument(ctx, productID); err != nil {
		syncRuns.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete product %s from index: %w", productID, err)
	}

	syncRuns.WithLabelValues("delete", "ok").Inc()
	o.logger.InfoContext(ctx, "product removed from index", slog.String("product_id", productID))
	return nil
}

// UpdateStock writes just the stock level of one document. Stock moves far
// more often than the rest of the product, so it merges in place instead of
// rebuilding the document from the catalog.
func (o *Orchestrator) UpdateStock(ctx context.Context, productID string, quantity int) error {
	if err := o.index.UpdateDocument(ctx, productID, map[string]any{"stockQuantity": quantity}); err != nil {
		syncRuns.WithLabelValues("stock", "error").Inc()
		return fmt.Errorf("update stock for %s: %w", productID, err)
	}

	syncRuns.WithLabelValues("stock", "ok").Inc()
	o.logger.DebugContext(ctx, "stock updated in index",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)
	return nil
}

// SyncRecent bulk-upserts every product modified inside the given window.
// An empty window is a successful no-op; the index is not touched.
func (o *Orchestrator) SyncRecent(ctx context.Context, window time.Duration) (*index.BulkResult, error) {
	start := o.now()
	since := start.Add(-window)

	products, err := o.catalog.ListModifiedSince(ctx, since)
	if err != nil {
		syncRuns.WithLabelValues("recent", "error").Inc()
		return nil, fmt.Errorf("sync recent: %w", err)
	}

	if len(products) == 0 {
		syncRuns.WithLabelValues("recent", "ok").Inc()
		o.logger.InfoContext(ctx, "incremental sync found no changes",
			slog.Time("since", since),
		)
		return &index.BulkResult{}, nil
	}

	result, err := o.index.BulkIndex(ctx, document.BuildAll(products))
	if err != nil {
		syncRuns.WithLabelValues("recent", "error").Inc()
		return nil, fmt.Errorf("sync recent: %w", err)
	}

	syncRuns.WithLabelValues("recent", "ok").Inc()
	syncedDocuments.WithLabelValues("recent").Add(float64(result.Indexed))
	syncDuration.WithLabelValues("recent").Observe(o.now().Sub(start).Seconds())

	o.logger.InfoContext(ctx, "incremental sync completed",
		slog.Time("since", since),
		slog.Int("indexed", result.Indexed),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// SyncAll rebuilds the whole index from the catalog. Concurrent callers
// share a single run and receive its result.
func (o *Orchestrator) SyncAll(ctx context.Context) (*index.BulkResult, error) {
	v, err, shared := o.group.Do("reindex", func() (any, error) {
		return o.syncAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		o.logger.InfoContext(ctx, "full reindex request joined an in-flight run")
	}
	return v.(*index.BulkResult), nil
}

func (o *Orchestrator) syncAll(ctx context.Context) (*index.BulkResult, error) {
	start := o.now()

	products, err := o.catalog.ListAll(ctx)
	if err != nil {
		syncRuns.WithLabelValues("all", "error").Inc()
		return nil, fmt.Errorf("full reindex: %w", err)
	}

	result, err := o.index.ReindexAll(ctx, document.BuildAll(products))
	if err != nil {
		syncRuns.WithLabelValues("all", "error").Inc()
		return nil, fmt.Errorf("full reindex: %w", err)
	}

	syncRuns.WithLabelValues("all", "ok").Inc()
	syncedDocuments.WithLabelValues("all").Add(float64(result.Indexed))
	syncDuration.WithLabelValues("all").Observe(o.now().Sub(start).Seconds())

	o.logger.InfoContext(ctx, "full reindex completed",
		slog.Int("products", len(products)),
		slog.Int("indexed", result.Indexed),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}
