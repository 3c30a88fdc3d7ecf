package sync

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index/memory"
	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"
)

type fakeCatalog struct {
	products map[string]domain.Product

	listAllCalls      int
	listModifiedCalls int
	listModifiedSince time.Time
	failListAll       error
	failListModified  error
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[string]domain.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

func (c *fakeCatalog) ListModifiedSince(_ context.Context, since time.Time) ([]domain.Product, error) {
	c.listModifiedCalls++
	c.listModifiedSince = since
	if c.failListModified != nil {
		return nil, c.failListModified
	}
	out := []domain.Product{}
	for _, p := range c.products {
		if !p.UpdatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) ListAll(_ context.Context) ([]domain.Product, error) {
	c.listAllCalls++
	if c.failListAll != nil {
		return nil, c.failListAll
	}
	out := []domain.Product{}
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func activeProduct(id string, updatedAt time.Time) domain.Product {
	return domain.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     100,
		IsActive:  true,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestSyncOne(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store := newFakeCatalog(activeProduct("p1", now))
	engine := memory.New()
	o := NewOrchestrator(store, engine, testLogger())

	require.NoError(t, o.SyncOne(context.Background(), "p1"))

	res, err := engine.Search(context.Background(), &domain.SearchRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "p1", res.Hits[0].ID)
}

func TestSyncOne_NotFoundPropagates(t *testing.T) {
	o := NewOrchestrator(newFakeCatalog(), memory.New(), testLogger())

	err := o.SyncOne(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestSyncOne_InactiveStillIndexed(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	p := activeProduct("p1", now)
	p.IsActive = false
	engine := memory.New()
	o := NewOrchestrator(newFakeCatalog(p), engine, testLogger())

	require.NoError(t, o.SyncOne(context.Background(), "p1"))

	// The document exists but queries never surface it.
	res, err := engine.Search(context.Background(), &domain.SearchRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestDeleteOne_AbsentIsSuccess(t *testing.T) {
	o := NewOrchestrator(newFakeCatalog(), memory.New(), testLogger())

	assert.NoError(t, o.DeleteOne(context.Background(), "never-indexed"))
}

func TestSyncRecent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store := newFakeCatalog(
		activeProduct("p1", now.Add(-5*time.Minute)),
		activeProduct("p2", now.Add(-2*time.Hour)),
	)
	engine := memory.New()
	o := NewOrchestrator(store, engine, testLogger())
	o.now = func() time.Time { return now }

	result, err := o.SyncRecent(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, now.Add(-10*time.Minute), store.listModifiedSince)
}

func TestSyncRecent_NoChangesIsNoOp(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store := newFakeCatalog(activeProduct("p1", now.Add(-2*time.Hour)))
	engine := memory.New()
	o := NewOrchestrator(store, engine, testLogger())
	o.now = func() time.Time { return now }

	result, err := o.SyncRecent(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Zero(t, result.Indexed)
	assert.Empty(t, result.Failed)
}

func TestSyncRecent_CatalogError(t *testing.T) {
	store := newFakeCatalog()
	store.failListModified = errors.New("connection refused")
	o := NewOrchestrator(store, memory.New(), testLogger())

	_, err := o.SyncRecent(context.Background(), time.Hour)

	assert.Error(t, err)
}

func TestSyncAll_ReplacesStaleDocuments(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	engine := memory.New()
	require.NoError(t, engine.IndexDocument(context.Background(), &domain.Document{
		ID: "stale", Name: "Ghost Product", IsActive: true,
	}))

	store := newFakeCatalog(activeProduct("p1", now))
	o := NewOrchestrator(store, engine, testLogger())

	result, err := o.SyncAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)

	res, err := engine.Search(context.Background(), &domain.SearchRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "p1", res.Hits[0].ID)
}

func TestSyncAll_CatalogError(t *testing.T) {
	store := newFakeCatalog()
	store.failListAll = errors.New("connection refused")
	o := NewOrchestrator(store, memory.New(), testLogger())

	_, err := o.SyncAll(context.Background())

	assert.Error(t, err)
}
