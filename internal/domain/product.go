package domain

import (
	"time"
)

// Category is the denormalized category attached to a catalog product.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductImage is one image descriptor from the catalog store.
type ProductImage struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Product is a catalog product record as read from the catalog store.
// The catalog store owns this data; the search service only reads it.
type Product struct {
	ID            string
	Name          string
	Description   string
	SKU           string
	Price         float64
	DiscountPrice *float64
	StockQuantity int
	CategoryID    string
	Category      *Category
	Brand         string
	Tags          []string
	Attributes    map[string]any
	Images        []ProductImage
	IsActive      bool
	Featured      bool
	Trending      bool
	AverageRating float64
	ReviewCount   int
	SoldCount     int
	Views         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
