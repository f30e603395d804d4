package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
	"vgsales/internal/services"
)

// ExportHandler serves table downloads
type ExportHandler struct {
	service      ExportServiceInterface
	parser       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportServiceInterface, parser *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		parser:       parser,
		logger:       infrastructure.WithComponent(logger, "export_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes, mounted at /api/export
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTables)
	r.Get("/{table}", h.Export)
	return r
}

// ListTables handles GET /api/export
func (h *ExportHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables := h.service.Tables()
	respondList(w, r, tables, len(tables))
}

// Export handles GET /api/export/{table}?format=csv|xlsx|json
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	q, err := h.parser.Export(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Export(r.Context(), services.ExportRequest{
		Table:  table,
		Format: q.Format,
		Filter: toFilter(q.FilterQuery),
		TopN:   intOr(q.TopN, defaultTopN),
		BOM:    q.BOM,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTable):
			err = apierrors.NewWithDetails(http.StatusNotFound, apierrors.CodeNotFound,
				fmt.Sprintf("Unknown export table %q", table),
				map[string]interface{}{"table": table, "allowed": h.service.Tables()})
		case errors.Is(err, services.ErrInvalidFormat):
			err = apierrors.InvalidParameter("format", q.Format, []string{"csv", "xlsx", "json"})
		default:
			recordFailure(r, "export")
			h.logger.ErrorContext(r.Context(), "Export failed",
				slog.String("table", table),
				slog.String("error", err.Error()))
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.Header().Set("X-Export-Rows", strconv.Itoa(result.Rows))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Body); err != nil {
		h.logger.WarnContext(r.Context(), "Export download interrupted",
			slog.String("file", result.FileName),
			slog.String("error", err.Error()))
	}
}
