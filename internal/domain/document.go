package domain

import (
	"time"
)

// DocumentCategory is the category sub-object stored on an index document.
type DocumentCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Document is the denormalized, index-ready representation of a product.
// It is derived from a Product and fully rebuildable; the index never holds
// state that cannot be reconstructed from the catalog store.
type Document struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	SKU           string            `json:"sku"`
	Price         float64           `json:"price"`
	DiscountPrice *float64          `json:"discountPrice"`
	StockQuantity int               `json:"stockQuantity"`
	Category      *DocumentCategory `json:"category"`
	Brand         string            `json:"brand"`
	Tags          []string          `json:"tags"`
	Attributes    map[string]any    `json:"attributes"`
	Images        []string          `json:"images"`
	IsActive      bool              `json:"isActive"`
	Featured      bool              `json:"featured"`
	Trending      bool              `json:"trending"`
	AverageRating float64           `json:"averageRating"`
	ReviewCount   int               `json:"reviewCount"`
	SoldCount     int               `json:"soldCount"`
	Views         int               `json:"views"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
