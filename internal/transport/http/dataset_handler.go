package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
)

// DatasetHandler reports on and reloads the served dataset
type DatasetHandler struct {
	service      DatasetServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "dataset_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes, mounted at /api/dataset
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetDataset)
	r.Post("/reload", h.Reload)
	return r
}

// GetDataset handles GET /api/dataset
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Info(r.Context()))
}

// Reload handles POST /api/dataset/reload. On failure the previous dataset
// stays active and the loading error is returned as a problem.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Reload(r.Context())
	if err != nil {
		recordFailure(r, "dataset")
		h.logger.ErrorContext(r.Context(), "Dataset reload failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Dataset reloaded",
		slog.String("path", info.Path),
		slog.Int("records", info.Records))
	respond(w, r, info)
}
