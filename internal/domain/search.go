package domain

import (
	"time"
)

// Sort keys for search results.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortRating    = "rating"
)

// ValidSortKeys returns the list of accepted sort keys.
func ValidSortKeys() []string {
	return []string{SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest, SortPopular, SortRating}
}

// IsValidSort reports whether the given key is an accepted sort key.
func IsValidSort(key string) bool {
	for _, k := range ValidSortKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// SearchRequest holds all parameters for one search execution.
type SearchRequest struct {
	Query      string   `json:"query"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	CategoryID string   `json:"category_id,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	InStock    bool     `json:"in_stock"`
	SortBy     string   `json:"sort_by"`
	UserID     string   `json:"user_id,omitempty"`
}

// Hit is one ranked search result with its relevance score.
type Hit struct {
	Document
	Score float64 `json:"score"`
}

// FacetBucket is one term bucket in a facet aggregation.
type FacetBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PriceRangeBucket is one bucket of the fixed price histogram.
type PriceRangeBucket struct {
	Key   string   `json:"key"`
	From  *float64 `json:"from,omitempty"`
	To    *float64 `json:"to,omitempty"`
	Count int      `json:"count"`
}

// PriceStats carries price average/min/max over the matched set. Values are
// nil when the matched set is empty.
type PriceStats struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Facets are the aggregations computed alongside every search.
type Facets struct {
	Categories  []FacetBucket      `json:"categories"`
	Brands      []FacetBucket      `json:"brands"`
	PriceRanges []PriceRangeBucket `json:"price_ranges"`
	PriceStats  PriceStats         `json:"price_stats"`
}

// SearchResult is the paginated, faceted search response.
type SearchResult struct {
	Hits       []Hit  `json:"hits"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
	TookMs     int64  `json:"took_ms"`
	Facets     Facets `json:"facets"`
	QueryLogID string `json:"query_log_id,omitempty"`
}

// LiteHit is the lightweight hit shape returned by search-as-you-type.
type LiteHit struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Images   []string          `json:"images"`
	Category *DocumentCategory `json:"category"`
}

// QueryLogEntry is one appended record of an executed search.
type QueryLogEntry struct {
	ID                string    `json:"-"`
	Query             string    `json:"query"`
	UserID            string    `json:"userId,omitempty"`
	ResultCount       int       `json:"resultCount"`
	Timestamp         time.Time `json:"timestamp"`
	ClickedProductIDs []string  `json:"clickedProductIds,omitempty"`
}

// QueryCount is a query term with its occurrence count, used for trending
// and zero-result reporting.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// HourBucket is one bucket of the hourly search histogram.
type HourBucket struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// SearchMetrics summarizes query-log activity over a date range.
type SearchMetrics struct {
	TotalSearches      int          `json:"total_searches"`
	UniqueSearches     int          `json:"unique_searches"`
	AvgResultCount     float64      `json:"avg_result_count"`
	ZeroResultSearches int          `json:"zero_result_searches"`
	ZeroResultRate     float64      `json:"zero_result_rate"`
	SearchesByHour     []HourBucket `json:"searches_by_hour"`
	TopQueries         []QueryCount `json:"top_queries"`
}

// ClickThroughStats summarizes click attribution over the query log.
type ClickThroughStats struct {
	SearchesWithClicks int     `json:"searches_with_clicks"`
	TotalSearches      int     `json:"total_searches"`
	ClickThroughRate   float64 `json:"click_through_rate"`
}
