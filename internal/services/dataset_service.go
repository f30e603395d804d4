package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"vgsales/internal/analytics"
	"vgsales/internal/dataprocessing"
	"vgsales/internal/infrastructure"
	api "vgsales/pkg/contracts/api/v1"
	"vgsales/pkg/contracts/domain"
)

// DatasetSource provides the dataset served to readers.
type DatasetSource interface {
	Current() *domain.Dataset
}

// DatasetStore is the part of the dataset store the HTTP layer uses.
type DatasetStore interface {
	DatasetSource
	Status() dataprocessing.Status
	Loaded() []string
	ReloadDefault(ctx context.Context) (*domain.Dataset, error)
}

// FailureFunc is notified when a requested reload fails. path is empty when
// the failure did not come from reading the file.
type FailureFunc func(ctx context.Context, path string, err error)

// DatasetService reports on and reloads the active dataset.
type DatasetService struct {
	store  DatasetStore
	logger *slog.Logger

	mu        sync.Mutex
	onFailure []FailureFunc
}

// NewDatasetService creates a dataset service.
func NewDatasetService(store DatasetStore, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DatasetService{
		store:  store,
		logger: logger.With(slog.String("service", "dataset")),
	}
}

// OnReloadFailure registers fn to run after a failed Reload.
func (s *DatasetService) OnReloadFailure(fn FailureFunc) {
	s.mu.Lock()
	s.onFailure = append(s.onFailure, fn)
	s.mu.Unlock()
}

// Info describes the dataset currently served.
func (s *DatasetService) Info(ctx context.Context) api.DatasetInfo {
	st := s.store.Status()
	info := api.DatasetInfo{
		Path:        st.Path,
		Records:     st.Records,
		LoadedAt:    st.LoadedAt,
		Fallback:    st.Fallback,
		LastError:   st.Error,
		CleanReport: st.Report,
		CachedPaths: s.store.Loaded(),
	}
	if yr, ok := analytics.YearRange(s.store.Current().Records()); ok {
		info.YearRange = &yr
	}
	return info
}

// Reload rereads the dataset file. On failure the previous dataset keeps
// being served and the loading error is returned.
func (s *DatasetService) Reload(ctx context.Context) (api.DatasetInfo, error) {
	s.logger.InfoContext(ctx, "Dataset reload requested")
	if _, err := s.store.ReloadDefault(ctx); err != nil {
		s.notifyFailure(ctx, err)
		return api.DatasetInfo{}, fmt.Errorf("reload dataset: %w", err)
	}
	return s.Info(ctx), nil
}

func (s *DatasetService) notifyFailure(ctx context.Context, err error) {
	var path string
	var loadErr *dataprocessing.DataLoadingError
	if errors.As(err, &loadErr) {
		path = loadErr.Path
	}

	s.mu.Lock()
	hooks := make([]FailureFunc, len(s.onFailure))
	copy(hooks, s.onFailure)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx, path, err)
	}
}
