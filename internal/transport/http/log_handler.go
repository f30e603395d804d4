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
)

// LogHandler lists, reads and prunes the application log files
type LogHandler struct {
	service      LogServiceInterface
	parser       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewLogHandler creates a new log handler
func NewLogHandler(service LogServiceInterface, parser *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *LogHandler {
	return &LogHandler{
		service:      service,
		parser:       parser,
		logger:       infrastructure.WithComponent(logger, "log_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the log routes, mounted at /api/logs
func (h *LogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.List)
	r.Delete("/", h.Prune)
	r.Get("/{name}", h.Tail)
	return r
}

// List handles GET /api/logs
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("log listing", err))
		return
	}
	respondList(w, r, files, len(files))
}

// Tail handles GET /api/logs/{name}?lines=N
func (h *LogHandler) Tail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q, err := h.parser.LogTail(r, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tail, err := h.service.Tail(r.Context(), q.Name, intOr(q.Lines, 0))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLogName):
			err = apierrors.InvalidParameter("name", name, nil)
		case errors.Is(err, services.ErrLogNotFound):
			err = apierrors.NotFoundError("log file " + name)
		default:
			err = apierrors.FileSystemError("log read", err)
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respondList(w, r, tail, len(tail.Lines))
}

// Prune handles DELETE /api/logs?keep_days=N
func (h *LogHandler) Prune(w http.ResponseWriter, r *http.Request) {
	q, err := h.parser.LogPrune(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Prune(r.Context(), intOr(q.KeepDays, 0))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("log cleanup", err))
		return
	}
	h.logger.InfoContext(r.Context(), "Log files pruned",
		slog.Int("removed", len(result.Removed)),
		slog.Int("keep_days", result.KeepDays))
	respondList(w, r, result, len(result.Removed))
}
