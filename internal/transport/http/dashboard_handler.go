package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vgsales/internal/analytics"
	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
)

// DashboardHandler serves the precomputed dashboard pages
type DashboardHandler struct {
	service      DashboardServiceInterface
	parser       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, parser *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		parser:       parser,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes, mounted at /api/dashboard
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/filters", h.GetFilters)
	r.Get("/overview", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Overview(ctx, f)
	}))
	r.Get("/sales", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Sales(ctx, f)
	}))
	r.Get("/genres", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Genres(ctx, f)
	}))
	r.Get("/platforms", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Platforms(ctx, f)
	}))
	r.Get("/publishers", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Publishers(ctx, f)
	}))
	r.Get("/regions", h.page(func(ctx context.Context, f analytics.Filter) (interface{}, error) {
		return h.service.Regions(ctx, f)
	}))
	return r
}

// page adapts a filtered page computation to a handler.
func (h *DashboardHandler) page(compute func(ctx context.Context, f analytics.Filter) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := h.parser.Filter(r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		data, err := compute(r.Context(), toFilter(q))
		if err != nil {
			recordFailure(r, "dashboard")
			h.logger.ErrorContext(r.Context(), "Failed to build dashboard page",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			h.errorHandler.HandleError(w, r, err)
			return
		}
		respond(w, r, data)
	}
}

// GetFilters handles GET /api/dashboard/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, filters)
}
