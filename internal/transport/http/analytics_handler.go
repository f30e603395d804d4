package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
	"vgsales/internal/services"
	api "vgsales/pkg/contracts/api/v1"
)

var (
	allowedDimensions = []string{"year", "platform", "genre", "publisher", "name"}
	allowedMetrics    = []string{"global", "na", "eu", "jp", "other", "count"}
)

// AnalyticsHandler exposes the aggregation primitives over HTTP
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	parser       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, parser *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		parser:       parser,
		logger:       infrastructure.WithComponent(logger, "analytics_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes, mounted at /api/analytics
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/group/{dimension}", h.Group)
	r.Get("/market-share/{dimension}", h.MarketShare)
	r.Get("/top/{dimension}", h.Top)
	r.Get("/trends", h.Trends)
	r.Get("/growth", h.Growth)
	return r
}

func (h *AnalyticsHandler) query(w http.ResponseWriter, r *http.Request) (api.AnalyticsQuery, bool) {
	q, err := h.parser.Analytics(r, chi.URLParam(r, "dimension"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

// fail maps service argument errors to 400 problems.
func (h *AnalyticsHandler) fail(w http.ResponseWriter, r *http.Request, q api.AnalyticsQuery, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDimension):
		err = apierrors.InvalidParameter("dimension", q.Dimension, allowedDimensions)
	case errors.Is(err, services.ErrInvalidMetric):
		err = apierrors.InvalidParameter("metric", q.Metric, allowedMetrics)
	default:
		recordFailure(r, "analytics")
		h.logger.ErrorContext(r.Context(), "Analytics query failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	h.errorHandler.HandleError(w, r, err)
}

// Group handles GET /api/analytics/group/{dimension}
func (h *AnalyticsHandler) Group(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Group(r.Context(), q.Dimension, q.Metric, toFilter(q.FilterQuery))
	if err != nil {
		h.fail(w, r, q, err)
		return
	}
	respondList(w, r, stats, len(stats))
}

// MarketShare handles GET /api/analytics/market-share/{dimension}
func (h *AnalyticsHandler) MarketShare(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	shares, err := h.service.MarketShare(r.Context(), q.Dimension, q.Metric, toFilter(q.FilterQuery))
	if err != nil {
		h.fail(w, r, q, err)
		return
	}
	respondList(w, r, shares, len(shares))
}

// Top handles GET /api/analytics/top/{dimension}. The name dimension ranks
// individual releases.
func (h *AnalyticsHandler) Top(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	ranking, err := h.service.Top(r.Context(), q.Dimension, q.Metric, intOr(q.TopN, defaultTopN), toFilter(q.FilterQuery))
	if err != nil {
		h.fail(w, r, q, err)
		return
	}
	respondList(w, r, ranking, ranking.Len())
}

// Trends handles GET /api/analytics/trends
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	f, err := h.parser.Filter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	trends := h.service.Trends(r.Context(), toFilter(f))
	respondList(w, r, trends, len(trends))
}

// Growth handles GET /api/analytics/growth
func (h *AnalyticsHandler) Growth(w http.ResponseWriter, r *http.Request) {
	f, err := h.parser.Filter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	growth := h.service.Growth(r.Context(), toFilter(f))
	respondList(w, r, growth, len(growth))
}
