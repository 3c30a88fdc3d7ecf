// Package postgres implements the catalog store on PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/catalog"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/database"
)

const productColumns = `
	p.id, p.name, p.description, p.sku, p.price, p.discount_price, p.stock_quantity,
	p.category_id, c.id, c.name, c.slug,
	p.brand, p.tags, p.attributes, p.images,
	p.is_active, p.featured, p.trending,
	p.average_rating, p.review_count, p.sold_count, p.views,
	p.created_at, p.updated_at`

// ProductStore implements catalog.Store using PostgreSQL.
type ProductStore struct {
	pool database.DBTX
}

var _ catalog.Store = (*ProductStore)(nil)

// NewProductStore creates a PostgreSQL-backed catalog store.
func NewProductStore(pool database.DBTX) *ProductStore {
	return &ProductStore{pool: pool}
}

// GetByID retrieves one product with its category resolved.
func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListModifiedSince returns all products updated at or after the given time.
func (s *ProductStore) ListModifiedSince(ctx context.Context, since time.Time) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.updated_at >= $1
		ORDER BY p.updated_at`

	return s.queryProducts(ctx, query, since)
}

// ListAll returns the entire catalog ordered by creation time.
func (s *ProductStore) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at`

	return s.queryProducts(ctx, query)
}

func (s *ProductStore) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p              domain.Product
		productCatID   *string
		categoryID     *string
		categoryName   *string
		categorySlug   *string
		tags           []string
		attributesJSON []byte
		imagesJSON     []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SKU,
		&p.Price,
		&p.DiscountPrice,
		&p.StockQuantity,
		&productCatID,
		&categoryID,
		&categoryName,
		&categorySlug,
		&p.Brand,
		&tags,
		&attributesJSON,
		&imagesJSON,
		&p.IsActive,
		&p.Featured,
		&p.Trending,
		&p.AverageRating,
		&p.ReviewCount,
		&p.SoldCount,
		&p.Views,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Tags = tags
	if productCatID != nil {
		p.CategoryID = *productCatID
	}
	if categoryID != nil {
		p.Category = &domain.Category{ID: *categoryID}
		if categoryName != nil {
			p.Category.Name = *categoryName
		}
		if categorySlug != nil {
			p.Category.Slug = *categorySlug
		}
	}
	if attributesJSON != nil {
		if err := json.Unmarshal(attributesJSON, &p.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}
	if imagesJSON != nil {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}

	return &p, nil
}
