// Package http exposes the search service over HTTP.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/httputil"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/middleware"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/validator"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/service"
)

// SearchHandler handles the public search endpoints.
type SearchHandler struct {
	search   *service.SearchService
	trending *service.TrendingService
	logger   *slog.Logger
}

// NewSearchHandler creates a search HTTP handler.
func NewSearchHandler(search *service.SearchService, trending *service.TrendingService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		search:   search,
		trending: trending,
		logger:   logger,
	}
}

// TrackClickRequest is the JSON body for click attribution.
type TrackClickRequest struct {
	QueryLogID string   `json:"query_log_id" validate:"required"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=50,dive,required"`
}

// NaturalSearchResponse pairs the parsed breakdown with the results.
type NaturalSearchResponse struct {
	Parsed any                  `json:"parsed"`
	Result *domain.SearchResult `json:"result"`
}

// Search handles GET /api/v1/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSearchRequest(w, r)
	if !ok {
		return
	}

	result, err := h.search.Search(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Filters handles GET /api/v1/search/filters: facets for the current filter
// set, without hits.
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSearchRequest(w, r)
	if !ok {
		return
	}

	facets, err := h.search.Filters(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: facets})
}

// Suggest handles GET /api/v1/search/suggest.
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.search.Suggest(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}

// Instant handles GET /api/v1/search/instant.
func (h *SearchHandler) Instant(w http.ResponseWriter, r *http.Request) {
	hits, err := h.search.InstantSearch(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: hits})
}

// Natural handles GET /api/v1/search/natural.
func (h *SearchHandler) Natural(w http.ResponseWriter, r *http.Request) {
	parsed, result, err := h.search.NaturalSearch(
		r.Context(),
		r.URL.Query().Get("q"),
		queryInt(r, "page"),
		queryInt(r, "per_page"),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: NaturalSearchResponse{Parsed: parsed, Result: result},
	})
}

// Trending handles GET /api/v1/search/trending.
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	counts, err := h.trending.Trending(r.Context(), queryInt(r, "limit"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}

// TrackClick handles POST /api/v1/search/click.
func (h *SearchHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req TrackClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid JSON body"},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.search.TrackClick(r.Context(), req.QueryLogID, req.ProductIDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// parseSearchRequest builds a SearchRequest from query parameters. It
// writes a 400 and returns false on malformed numbers.
func (h *SearchHandler) parseSearchRequest(w http.ResponseWriter, r *http.Request) (*domain.SearchRequest, bool) {
	q := r.URL.Query()

	req := &domain.SearchRequest{
		Query:      q.Get("q"),
		Page:       queryInt(r, "page"),
		PerPage:    queryInt(r, "per_page"),
		CategoryID: q.Get("category_id"),
		SortBy:     q.Get("sort"),
		InStock:    q.Get("in_stock") == "true",
		UserID:     middleware.UserIDFromContext(r.Context()),
	}
	// Public routes carry no auth context; the gateway forwards the user
	// identity as a header instead.
	if req.UserID == "" {
		req.UserID = r.Header.Get("X-User-ID")
	}

	if v := q.Get("brands"); v != "" {
		req.Brands = splitList(v)
	}
	if v := q.Get("tags"); v != "" {
		req.Tags = splitList(v)
	}

	var ok bool
	if req.MinPrice, ok = queryPrice(w, r, "min_price"); !ok {
		return nil, false
	}
	if req.MaxPrice, ok = queryPrice(w, r, "max_price"); !ok {
		return nil, false
	}

	return req, true
}

func queryInt(r *http.Request, name string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func queryPrice(w http.ResponseWriter, r *http.Request, name string) (*float64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}

	price, err := strconv.ParseFloat(v, 64)
	if err != nil || price < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: name + " must be a non-negative number",
			},
		})
		return nil, false
	}
	return &price, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
