// Package memory provides an in-process implementation of the index
// contracts. It backs local development and tests; matching is intentionally
// simpler than the production engine but observes the same request
// semantics: AND filters, always-on facets, the fixed sort keys, and an
// idempotent delete.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
)

// Engine holds documents and the query log in process memory. All methods
// are safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	docs    map[string]domain.Document
	entries map[string]domain.QueryLogEntry
	created bool

	now func() time.Time
}

var (
	_ index.Index    = (*Engine)(nil)
	_ index.QueryLog = (*Engine)(nil)
)

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		docs:    make(map[string]domain.Document),
		entries: make(map[string]domain.QueryLogEntry),
		now:     time.Now,
	}
}

// EnsureIndices is a no-op beyond marking the store created.
func (e *Engine) EnsureIndices(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = true
	return nil
}

// IndexDocument upserts one document by ID.
func (e *Engine) IndexDocument(_ context.Context, doc *domain.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs[doc.ID] = *doc
	return nil
}

// UpdateDocument merges fields into an existing document. Only the fields
// the partial-update paths use are supported.
func (e *Engine) UpdateDocument(_ context.Context, id string, fields map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.docs[id]
	if !ok {
		return fmt.Errorf("update document: %s not found", id)
	}
	for key, value := range fields {
		switch key {
		case "stockQuantity":
			switch v := value.(type) {
			case int:
				doc.StockQuantity = v
			case float64:
				doc.StockQuantity = int(v)
			}
		case "price":
			if v, ok := value.(float64); ok {
				doc.Price = v
			}
		case "isActive":
			if v, ok := value.(bool); ok {
				doc.IsActive = v
			}
		case "soldCount":
			switch v := value.(type) {
			case int:
				doc.SoldCount = v
			case float64:
				doc.SoldCount = int(v)
			}
		case "views":
			switch v := value.(type) {
			case int:
				doc.Views = v
			case float64:
				doc.Views = int(v)
			}
		}
	}
	e.docs[id] = doc
	return nil
}

// DeleteDocument removes a document. Deleting an absent ID succeeds.
func (e *Engine) DeleteDocument(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.docs, id)
	return nil
}

// BulkIndex upserts all documents. In-memory writes cannot partially fail,
// so the result reports every document as indexed.
func (e *Engine) BulkIndex(_ context.Context, docs []domain.Document) (*index.BulkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range docs {
		e.docs[docs[i].ID] = docs[i]
	}
	return &index.BulkResult{Indexed: len(docs)}, nil
}

// ReindexAll replaces the whole document set.
func (e *Engine) ReindexAll(_ context.Context, docs []domain.Document) (*index.BulkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = make(map[string]domain.Document, len(docs))
	for i := range docs {
		e.docs[docs[i].ID] = docs[i]
	}
	return &index.BulkResult{Indexed: len(docs)}, nil
}

// Search filters, ranks, facets, and paginates the document set.
func (e *Engine) Search(_ context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	start := e.now()

	e.mu.RLock()
	matched := make([]domain.Hit, 0)
	for _, doc := range e.docs {
		if !matchesFilters(&doc, req) {
			continue
		}
		score, ok := score(&doc, req.Query)
		if !ok {
			continue
		}
		matched = append(matched, domain.Hit{Document: doc, Score: score})
	}
	e.mu.RUnlock()

	sortHits(matched, req.SortBy)

	result := &domain.SearchResult{
		Total:   len(matched),
		Page:    req.Page,
		PerPage: req.PerPage,
		Facets:  buildFacets(matched),
		TookMs:  e.now().Sub(start).Milliseconds(),
	}
	if result.Page < 1 {
		result.Page = 1
	}
	if req.PerPage > 0 {
		result.TotalPages = (result.Total + req.PerPage - 1) / req.PerPage
	}

	from := (result.Page - 1) * req.PerPage
	if from > len(matched) {
		from = len(matched)
	}
	to := from + req.PerPage
	if to > len(matched) {
		to = len(matched)
	}
	result.Hits = append([]domain.Hit{}, matched[from:to]...)

	return result, nil
}

// Suggest returns deduplicated product names whose name starts with the
// prefix, case-insensitively.
func (e *Engine) Suggest(_ context.Context, prefix string, limit int) ([]string, error) {
	lower := strings.ToLower(prefix)

	e.mu.RLock()
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, doc := range e.docs {
		if !doc.IsActive {
			continue
		}
		if strings.HasPrefix(strings.ToLower(doc.Name), lower) && !seen[doc.Name] {
			seen[doc.Name] = true
			names = append(names, doc.Name)
		}
	}
	e.mu.RUnlock()

	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// SearchAsYouType matches any name token prefix and returns lightweight hits.
func (e *Engine) SearchAsYouType(_ context.Context, prefix string, limit int) ([]domain.LiteHit, error) {
	lower := strings.ToLower(prefix)

	e.mu.RLock()
	hits := make([]domain.LiteHit, 0)
	for _, doc := range e.docs {
		if !doc.IsActive {
			continue
		}
		if !tokenPrefixMatch(doc.Name, lower) {
			continue
		}
		hits = append(hits, domain.LiteHit{
			ID:       doc.ID,
			Name:     doc.Name,
			Price:    doc.Price,
			Images:   doc.Images,
			Category: doc.Category,
		})
	}
	e.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].Name < hits[j].Name })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func matchesFilters(doc *domain.Document, req *domain.SearchRequest) bool {
	if !doc.IsActive {
		return false
	}
	if req.InStock && doc.StockQuantity <= 0 {
		return false
	}
	if req.CategoryID != "" && (doc.Category == nil || doc.Category.ID != req.CategoryID) {
		return false
	}
	if req.MinPrice != nil && doc.Price < *req.MinPrice {
		return false
	}
	if req.MaxPrice != nil && doc.Price > *req.MaxPrice {
		return false
	}
	if len(req.Brands) > 0 && !containsString(req.Brands, doc.Brand) {
		return false
	}
	if len(req.Tags) > 0 {
		any := false
		for _, tag := range req.Tags {
			if containsString(doc.Tags, tag) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// score computes a crude term-overlap relevance: name matches weigh more
// than brand, which weighs more than description and the rest. A blank
// query matches everything at score zero.
func score(doc *domain.Document, query string) (float64, bool) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return 0, true
	}

	name := strings.ToLower(doc.Name)
	brand := strings.ToLower(doc.Brand)
	description := strings.ToLower(doc.Description)

	var total float64
	for _, term := range strings.Fields(query) {
		switch {
		case strings.Contains(name, term):
			total += 3
		case strings.Contains(brand, term):
			total += 2
		case strings.Contains(description, term):
			total++
		case doc.Category != nil && strings.Contains(strings.ToLower(doc.Category.Name), term):
			total++
		case containsFold(doc.Tags, term):
			total++
		default:
			return 0, false
		}
	}
	return total, true
}

func sortHits(hits []domain.Hit, sortBy string) {
	less := func(i, j int) bool { return hits[i].Score > hits[j].Score }
	switch sortBy {
	case domain.SortPriceAsc:
		less = func(i, j int) bool { return hits[i].Price < hits[j].Price }
	case domain.SortPriceDesc:
		less = func(i, j int) bool { return hits[i].Price > hits[j].Price }
	case domain.SortNewest:
		less = func(i, j int) bool { return hits[i].CreatedAt.After(hits[j].CreatedAt) }
	case domain.SortPopular:
		less = func(i, j int) bool {
			if hits[i].SoldCount != hits[j].SoldCount {
				return hits[i].SoldCount > hits[j].SoldCount
			}
			return hits[i].Views > hits[j].Views
		}
	case domain.SortRating:
		less = func(i, j int) bool {
			if hits[i].AverageRating != hits[j].AverageRating {
				return hits[i].AverageRating > hits[j].AverageRating
			}
			return hits[i].ReviewCount > hits[j].ReviewCount
		}
	}
	sort.SliceStable(hits, less)
}

// priceRanges mirrors the production facet histogram.
var priceRanges = []struct {
	key  string
	from *float64
	to   *float64
}{
	{"*-500.0", nil, f(500)},
	{"500.0-1000.0", f(500), f(1000)},
	{"1000.0-2000.0", f(1000), f(2000)},
	{"2000.0-5000.0", f(2000), f(5000)},
	{"5000.0-*", f(5000), nil},
}

func f(v float64) *float64 { return &v }

func buildFacets(hits []domain.Hit) domain.Facets {
	categories := make(map[string]int)
	brands := make(map[string]int)
	rangeCounts := make([]int, len(priceRanges))

	var sum, min, max float64
	for i, hit := range hits {
		if hit.Category != nil {
			categories[hit.Category.Name]++
		}
		if hit.Brand != "" {
			brands[hit.Brand]++
		}
		for j, pr := range priceRanges {
			if (pr.from == nil || hit.Price >= *pr.from) && (pr.to == nil || hit.Price < *pr.to) {
				rangeCounts[j]++
			}
		}
		sum += hit.Price
		if i == 0 || hit.Price < min {
			min = hit.Price
		}
		if i == 0 || hit.Price > max {
			max = hit.Price
		}
	}

	facets := domain.Facets{
		Categories:  mapToBuckets(categories),
		Brands:      mapToBuckets(brands),
		PriceRanges: make([]domain.PriceRangeBucket, 0, len(priceRanges)),
	}
	for j, pr := range priceRanges {
		facets.PriceRanges = append(facets.PriceRanges, domain.PriceRangeBucket{
			Key:   pr.key,
			From:  pr.from,
			To:    pr.to,
			Count: rangeCounts[j],
		})
	}
	if len(hits) > 0 {
		avg := sum / float64(len(hits))
		facets.PriceStats = domain.PriceStats{Avg: &avg, Min: &min, Max: &max}
	}
	return facets
}

func mapToBuckets(counts map[string]int) []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, domain.FacetBucket{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	if len(buckets) > 20 {
		buckets = buckets[:20]
	}
	return buckets
}

func tokenPrefixMatch(name, prefix string) bool {
	for _, token := range strings.Fields(strings.ToLower(name)) {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Append records one executed search.
func (e *Engine) Append(_ context.Context, entry *domain.QueryLogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[entry.ID] = *entry
	return nil
}

// AttachClicks records click attribution on an earlier entry.
func (e *Engine) AttachClicks(_ context.Context, entryID string, productIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.entries[entryID]
	if !ok {
		return fmt.Errorf("attach clicks: entry %s not found", entryID)
	}
	entry.ClickedProductIDs = productIDs
	e.entries[entryID] = entry
	return nil
}

// Trending returns the most frequent query terms of the last 24 hours.
func (e *Engine) Trending(_ context.Context, limit int) ([]domain.QueryCount, error) {
	cutoff := e.now().Add(-24 * time.Hour)

	e.mu.RLock()
	counts := make(map[string]int)
	for _, entry := range e.entries {
		if entry.Timestamp.After(cutoff) {
			counts[entry.Query]++
		}
	}
	e.mu.RUnlock()

	return topCounts(counts, limit), nil
}

// Metrics aggregates activity between two date-math bounds.
func (e *Engine) Metrics(_ context.Context, from, to string) (*domain.SearchMetrics, error) {
	fromTime, err := resolveDateMath(from, e.now())
	if err != nil {
		return nil, err
	}
	toTime, err := resolveDateMath(to, e.now())
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	metrics := &domain.SearchMetrics{
		SearchesByHour: []domain.HourBucket{},
		TopQueries:     []domain.QueryCount{},
	}
	unique := make(map[string]bool)
	hourly := make(map[string]int)
	topQueries := make(map[string]int)
	var resultSum int

	for _, entry := range e.entries {
		if entry.Timestamp.Before(fromTime) || entry.Timestamp.After(toTime) {
			continue
		}
		metrics.TotalSearches++
		unique[entry.Query] = true
		resultSum += entry.ResultCount
		if entry.ResultCount == 0 {
			metrics.ZeroResultSearches++
		}
		hourly[entry.Timestamp.UTC().Truncate(time.Hour).Format(time.RFC3339)]++
		topQueries[entry.Query]++
	}

	metrics.UniqueSearches = len(unique)
	if metrics.TotalSearches > 0 {
		metrics.AvgResultCount = float64(resultSum) / float64(metrics.TotalSearches)
		metrics.ZeroResultRate = float64(metrics.ZeroResultSearches) / float64(metrics.TotalSearches)
	}
	for hour, count := range hourly {
		metrics.SearchesByHour = append(metrics.SearchesByHour, domain.HourBucket{Hour: hour, Count: count})
	}
	sort.Slice(metrics.SearchesByHour, func(i, j int) bool {
		return metrics.SearchesByHour[i].Hour < metrics.SearchesByHour[j].Hour
	})
	metrics.TopQueries = topCounts(topQueries, 10)

	return metrics, nil
}

// ZeroResultQueries returns the most frequent queries that matched nothing.
func (e *Engine) ZeroResultQueries(_ context.Context, limit int) ([]domain.QueryCount, error) {
	e.mu.RLock()
	counts := make(map[string]int)
	for _, entry := range e.entries {
		if entry.ResultCount == 0 {
			counts[entry.Query]++
		}
	}
	e.mu.RUnlock()

	return topCounts(counts, limit), nil
}

// ClickThrough summarizes click attribution over the whole log.
func (e *Engine) ClickThrough(_ context.Context) (*domain.ClickThroughStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := &domain.ClickThroughStats{TotalSearches: len(e.entries)}
	for _, entry := range e.entries {
		if len(entry.ClickedProductIDs) > 0 {
			stats.SearchesWithClicks++
		}
	}
	if stats.TotalSearches > 0 {
		stats.ClickThroughRate = float64(stats.SearchesWithClicks) / float64(stats.TotalSearches)
	}
	return stats, nil
}

func topCounts(counts map[string]int, limit int) []domain.QueryCount {
	out := make([]domain.QueryCount, 0, len(counts))
	for query, count := range counts {
		out = append(out, domain.QueryCount{Query: query, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var dateMathRe = regexp.MustCompile(`^now(?:-(\d+)([hdwMy]))?(?:/d)?$`)

// resolveDateMath evaluates the date-math expressions the analytics
// endpoints accept: "now" with an optional h/d/w/M/y offset and an optional
// "/d" day rounding.
func resolveDateMath(expr string, now time.Time) (time.Time, error) {
	m := dateMathRe.FindStringSubmatch(expr)
	if m == nil {
		return time.Time{}, fmt.Errorf("unsupported date expression %q", expr)
	}

	t := now
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("unsupported date expression %q", expr)
		}
		switch m[2] {
		case "h":
			t = t.Add(-time.Duration(n) * time.Hour)
		case "d":
			t = t.AddDate(0, 0, -n)
		case "w":
			t = t.AddDate(0, 0, -7*n)
		case "M":
			t = t.AddDate(0, -n, 0)
		case "y":
			t = t.AddDate(-n, 0, 0)
		}
	}
	if strings.HasSuffix(expr, "/d") {
		t = t.UTC().Truncate(24 * time.Hour)
	}
	return t, nil
}
