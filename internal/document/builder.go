// Package document turns catalog products into index-ready documents.
package document

import (
	"math"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
)

// Build derives the index document for a catalog product. It is a pure
// function: identical input yields an identical document. Absent optional
// fields are defaulted (empty string/slice/map, zero counters) so a sparse
// catalog record never breaks the indexing pipeline.
func Build(p *domain.Product) *domain.Document {
	doc := &domain.Document{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Price:         roundPrice(p.Price),
		StockQuantity: p.StockQuantity,
		Brand:         p.Brand,
		Tags:          p.Tags,
		Attributes:    p.Attributes,
		Images:        imageURLs(p.Images),
		IsActive:      p.IsActive,
		Featured:      p.Featured,
		Trending:      p.Trending,
		AverageRating: roundPrice(p.AverageRating),
		ReviewCount:   p.ReviewCount,
		SoldCount:     p.SoldCount,
		Views:         p.Views,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	// A missing discount price stays null in the document, never zero.
	if p.DiscountPrice != nil {
		dp := roundPrice(*p.DiscountPrice)
		doc.DiscountPrice = &dp
	}

	if p.Category != nil {
		doc.Category = &domain.DocumentCategory{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		}
	}

	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.Attributes == nil {
		doc.Attributes = map[string]any{}
	}

	return doc
}

// BuildAll derives documents for a batch of products.
func BuildAll(products []domain.Product) []domain.Document {
	docs := make([]domain.Document, 0, len(products))
	for i := range products {
		docs = append(docs, *Build(&products[i]))
	}
	return docs
}

// roundPrice coerces a monetary value to two decimal places.
func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func imageURLs(images []domain.ProductImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}
