package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/database"
	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "name", "description", "sku", "price", "discount_price", "stock_quantity",
	"category_id", "c_id", "c_name", "c_slug",
	"brand", "tags", "attributes", "images",
	"is_active", "featured", "trending",
	"average_rating", "review_count", "sold_count", "views",
	"created_at", "updated_at",
}

func sampleRow() []any {
	attrs, _ := json.Marshal(map[string]any{"color": "black"})
	images, _ := json.Marshal([]domain.ProductImage{{URL: "https://cdn.example.com/p1.jpg", Position: 1}})
	return []any{
		"prod-1", "Wireless Headphones", "Over-ear wireless headphones", "WH-100",
		1499.0, f64Ptr(1299.0), 12,
		strPtr("cat-audio"), strPtr("cat-audio"), strPtr("Audio"), strPtr("audio"),
		"Soundwave", []string{"audio", "wireless"}, attrs, images,
		true, false, false,
		4.5, 31, 204, 5100,
		now, now,
	}
}

func TestGetByID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(sampleRow()...))

	store := NewProductStore(mock)
	p, err := store.GetByID(context.Background(), "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "Wireless Headphones", p.Name)
	assert.Equal(t, "cat-audio", p.CategoryID)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Audio", p.Category.Name)
	assert.Equal(t, "audio", p.Category.Slug)
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, 1299.0, *p.DiscountPrice)
	assert.Equal(t, map[string]any{"color": "black"}, p.Attributes)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://cdn.example.com/p1.jpg", p.Images[0].URL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(productCols))

	store := NewProductStore(mock)
	_, err := store.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NullCategory(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	row := sampleRow()
	row[7], row[8], row[9], row[10] = (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(row...))

	store := NewProductStore(mock)
	p, err := store.GetByID(context.Background(), "prod-1")

	require.NoError(t, err)
	assert.Empty(t, p.CategoryID)
	assert.Nil(t, p.Category)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListModifiedSince(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	since := now.Add(-10 * time.Minute)
	second := sampleRow()
	second[0] = "prod-2"

	mock.ExpectQuery("SELECT .+ FROM products p .+ WHERE p.updated_at >= ").
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(sampleRow()...).
			AddRow(second...))

	store := NewProductStore(mock)
	products, err := store.ListModifiedSince(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-1", products[0].ID)
	assert.Equal(t, "prod-2", products[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListModifiedSince_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	since := now
	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows(productCols))

	store := NewProductStore(mock)
	products, err := store.ListModifiedSince(context.Background(), since)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(sampleRow()...))

	store := NewProductStore(mock)
	products, err := store.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WillReturnError(errors.New("connection refused"))

	store := NewProductStore(mock)
	_, err := store.ListAll(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
