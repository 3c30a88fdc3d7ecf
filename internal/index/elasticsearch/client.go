// Package elasticsearch implements the product index and query log on top
// of an Elasticsearch cluster.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
)

// Config holds client construction parameters.
type Config struct {
	// URL of the Elasticsearch cluster.
	URL string

	// IndexPrefix prefixes the products and query-log index names.
	// Defaults to DefaultIndexPrefix.
	IndexPrefix string

	// FuzzySearch toggles typo-tolerant matching on the text clause.
	FuzzySearch bool
}

// Client is the Elasticsearch-backed implementation of index.Index.
type Client struct {
	es            *elasticsearch.Client
	productsIndex string
	queryLogIndex string
	fuzzy         bool
	logger        *slog.Logger
}

var _ index.Index = (*Client)(nil)

// esErrorResponse decodes Elasticsearch error bodies.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// esBulkResponse decodes bulk responses including per-item errors.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// New creates a client connected to the given cluster. It does not touch
// any index; call EnsureIndices before indexing.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = DefaultIndexPrefix
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	return &Client{
		es:            es,
		productsIndex: prefix + productsSuffix,
		queryLogIndex: prefix + queryLogSuffix,
		fuzzy:         cfg.FuzzySearch,
		logger:        logger,
	}, nil
}

// Ping checks whether the cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// EnsureIndices creates the products and query-log indices if absent. It is
// idempotent and runs at process start and before every full reindex.
func (c *Client) EnsureIndices(ctx context.Context) error {
	if err := c.ensureIndex(ctx, c.productsIndex, productIndexMapping()); err != nil {
		return err
	}
	return c.ensureIndex(ctx, c.queryLogIndex, queryLogIndexMapping())
}

func (c *Client) ensureIndex(ctx context.Context, name, mapping string) error {
	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s exists: %w", name, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		name,
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(res.Body, res.Status(), "create index "+name)
	}

	c.logger.Info("index created", slog.String("index", name))
	return nil
}

// IndexDocument upserts one document by ID with an immediate refresh so the
// single-record sync path is read-your-writes.
func (c *Client) IndexDocument(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index document: marshal: %w", err)
	}

	res, err := c.es.Index(
		c.productsIndex,
		bytes.NewReader(data),
		c.es.Index.WithDocumentID(doc.ID),
		c.es.Index.WithRefresh("true"),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(res.Body, res.Status(), "index document")
	}

	c.logger.Debug("document indexed", slog.String("id", doc.ID), slog.String("name", doc.Name))
	return nil
}

// UpdateDocument merges the given fields into an existing document.
func (c *Client) UpdateDocument(ctx context.Context, id string, fields map[string]any) error {
	body, err := json.Marshal(map[string]any{"doc": fields})
	if err != nil {
		return fmt.Errorf("update document: marshal: %w", err)
	}

	res, err := c.es.Update(
		c.productsIndex,
		id,
		bytes.NewReader(body),
		c.es.Update.WithRefresh("true"),
		c.es.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(res.Body, res.Status(), "update document")
	}

	c.logger.Debug("document updated", slog.String("id", id))
	return nil
}

// DeleteDocument removes a document by ID. A 404 is success: deleting an
// already-absent document is idempotent.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	res, err := c.es.Delete(
		c.productsIndex,
		id,
		c.es.Delete.WithRefresh("true"),
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return decodeError(res.Body, res.Status(), "delete document")
	}

	c.logger.Debug("document deleted", slog.String("id", id))
	return nil
}

// BulkIndex upserts documents in a single round trip. Per-document failures
// are collected into the result; they do not abort the remaining documents.
func (c *Client) BulkIndex(ctx context.Context, docs []domain.Document) (*index.BulkResult, error) {
	if len(docs) == 0 {
		return &index.BulkResult{}, nil
	}

	var buf bytes.Buffer
	for i := range docs {
		action := map[string]any{
			"index": map[string]any{
				"_index": c.productsIndex,
				"_id":    docs[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return nil, fmt.Errorf("bulk index: encode action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(docs[i]); err != nil {
			return nil, fmt.Errorf("bulk index: encode document: %w", err)
		}
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(c.productsIndex),
		c.es.Bulk.WithRefresh("true"),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(res.Body, res.Status(), "bulk index")
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return nil, fmt.Errorf("bulk index: decode response: %w", err)
	}

	result := &index.BulkResult{}
	for _, item := range bulkResp.Items {
		if item.Index.Error.Type != "" {
			result.Failed = append(result.Failed, index.BulkItemError{
				ID:     item.Index.ID,
				Type:   item.Index.Error.Type,
				Reason: item.Index.Error.Reason,
			})
		} else {
			result.Indexed++
		}
	}

	if len(result.Failed) > 0 {
		c.logger.Warn("bulk index completed with failures",
			slog.Int("indexed", result.Indexed),
			slog.Int("failed", len(result.Failed)),
		)
	} else {
		c.logger.Info("bulk index completed", slog.Int("indexed", result.Indexed))
	}

	return result, nil
}

// ReindexAll drops the products index, recreates it, and bulk-indexes the
// given documents. Search degrades during the index-absent window, which is
// why full rebuilds run on the low-traffic schedule.
func (c *Client) ReindexAll(ctx context.Context, docs []domain.Document) (*index.BulkResult, error) {
	res, err := c.es.Indices.Delete(
		[]string{c.productsIndex},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("reindex: delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return nil, decodeError(res.Body, res.Status(), "reindex: delete index")
	}

	if err := c.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("reindex: recreate indices: %w", err)
	}

	result, err := c.BulkIndex(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}

	c.logger.Info("reindex completed",
		slog.Int("indexed", result.Indexed),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// decodeError converts an Elasticsearch error body into a Go error.
func decodeError(body io.Reader, status, op string) error {
	var errResp esErrorResponse
	if decErr := json.NewDecoder(body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: unexpected status %s", op, status)
}
