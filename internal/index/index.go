// Package index defines the contracts for the product search index and the
// search query log. Implementations live in subpackages (elasticsearch for
// production, memory for development and tests).
package index

import (
	"context"
	"fmt"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
)

// BulkItemError describes one failed document inside a bulk request.
type BulkItemError struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// BulkResult reports the outcome of a bulk upsert. A bulk call can succeed
// at the transport level while individual documents fail, so callers must
// inspect Failed rather than rely on the absence of a top-level error.
type BulkResult struct {
	Indexed int             `json:"indexed"`
	Failed  []BulkItemError `json:"failed,omitempty"`
}

// Err returns a summarizing error when any document failed, nil otherwise.
func (r *BulkResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("bulk index: %d of %d documents failed (first: id=%s %s)",
		len(r.Failed), r.Indexed+len(r.Failed), r.Failed[0].ID, r.Failed[0].Reason)
}

// Index is the write/read contract with the product search index.
type Index interface {
	// EnsureIndices idempotently creates the product and query-log indices
	// with their fixed mappings. It never errors when they already exist.
	EnsureIndices(ctx context.Context) error

	// IndexDocument upserts one document by ID. The write is visible to
	// immediately subsequent reads.
	IndexDocument(ctx context.Context, doc *domain.Document) error

	// UpdateDocument merges the given fields into an existing document.
	UpdateDocument(ctx context.Context, id string, fields map[string]any) error

	// DeleteDocument removes a document by ID. Deleting an absent document
	// is a success.
	DeleteDocument(ctx context.Context, id string) error

	// BulkIndex upserts documents in a single round trip and reports
	// per-document failures.
	BulkIndex(ctx context.Context, docs []domain.Document) (*BulkResult, error)

	// ReindexAll drops the product index and rebuilds it from the given
	// documents. Stale documents do not survive.
	ReindexAll(ctx context.Context, docs []domain.Document) (*BulkResult, error)

	// Search executes a ranked, filtered, faceted query.
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error)

	// Suggest returns deduplicated completion strings for a name prefix.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)

	// SearchAsYouType returns lightweight hits for incremental typing.
	SearchAsYouType(ctx context.Context, prefix string, limit int) ([]domain.LiteHit, error)
}

// QueryLog is the append-only record of executed searches, with the
// read-side analytics computed over it.
type QueryLog interface {
	// Append records one executed search.
	Append(ctx context.Context, entry *domain.QueryLogEntry) error

	// AttachClicks records after-the-fact click attribution on an entry.
	AttachClicks(ctx context.Context, entryID string, productIDs []string) error

	// Trending returns the most frequent query terms of the last 24 hours.
	Trending(ctx context.Context, limit int) ([]domain.QueryCount, error)

	// Metrics aggregates query-log activity between two points in time,
	// given as Elasticsearch date-math expressions (e.g. "now-7d/d").
	Metrics(ctx context.Context, from, to string) (*domain.SearchMetrics, error)

	// ZeroResultQueries returns the most frequent queries with no results.
	ZeroResultQueries(ctx context.Context, limit int) ([]domain.QueryCount, error)

	// ClickThrough summarizes click attribution over the whole log.
	ClickThrough(ctx context.Context) (*domain.ClickThroughStats, error)
}
