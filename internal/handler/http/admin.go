package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/chandan1708/AI-Enabled-E-commerce/pkg/errors"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/httputil"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/service"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/sync"
)

// AdminHandler handles the operator endpoints: index maintenance and
// query-log analytics.
type AdminHandler struct {
	orchestrator *sync.Orchestrator
	analytics    *service.AnalyticsService
	syncWindow   time.Duration
	logger       *slog.Logger
}

// NewAdminHandler creates an admin HTTP handler.
func NewAdminHandler(orchestrator *sync.Orchestrator, analytics *service.AnalyticsService, syncWindow time.Duration, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		orchestrator: orchestrator,
		analytics:    analytics,
		syncWindow:   syncWindow,
		logger:       logger,
	}
}

// Reindex handles POST /api/v1/admin/search/reindex. The rebuild runs
// synchronously; concurrent requests share one run.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	result, err := h.orchestrator.SyncAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SyncRecent handles POST /api/v1/admin/search/sync-recent. An optional
// window parameter overrides the configured catch-up window.
func (h *AdminHandler) SyncRecent(w http.ResponseWriter, r *http.Request) {
	window := h.syncWindow
	if v := r.URL.Query().Get("window"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, r, apperrors.InvalidInput("window must be a positive duration"), h.logger)
			return
		}
		window = parsed
	}

	result, err := h.orchestrator.SyncRecent(r.Context(), window)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SyncProduct handles POST /api/v1/admin/search/sync/{productID}.
func (h *AdminHandler) SyncProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	if err := h.orchestrator.SyncOne(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"product_id": productID,
		"status":     "synced",
	}})
}

// Metrics handles GET /api/v1/admin/search/analytics/metrics.
func (h *AdminHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analytics.Metrics(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: metrics})
}

// ZeroResults handles GET /api/v1/admin/search/analytics/zero-results.
func (h *AdminHandler) ZeroResults(w http.ResponseWriter, r *http.Request) {
	counts, err := h.analytics.ZeroResults(r.Context(), queryInt(r, "limit"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}

// ClickThrough handles GET /api/v1/admin/search/analytics/click-through.
func (h *AdminHandler) ClickThrough(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.ClickThrough(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
