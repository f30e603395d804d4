package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// ReloadFunc is called after a dataset has been installed in the store.
type ReloadFunc func(ctx context.Context, ds *domain.Dataset)

// Status describes the dataset served for the default path.
type Status struct {
	Path     string              `json:"path"`
	Records  int                 `json:"records"`
	LoadedAt time.Time           `json:"loaded_at"`
	Fallback bool                `json:"fallback"`
	Error    string              `json:"error,omitempty"`
	Report   *domain.CleanReport `json:"clean_report,omitempty"`
}

// Store caches cleaned datasets by path. Datasets are immutable; a reload
// builds a new one and swaps it in, so readers never see a partial dataset.
type Store struct {
	loader      *Loader
	cleaner     *Cleaner
	logger      *slog.Logger
	tracer      trace.Tracer
	defaultPath string
	now         func() time.Time

	mu       sync.RWMutex
	datasets map[string]*domain.Dataset
	errs     map[string]error

	group singleflight.Group

	subsMu      sync.Mutex
	subscribers []ReloadFunc
}

// NewStore creates an empty store. defaultPath is the dataset served by Current.
func NewStore(loader *Loader, cleaner *Cleaner, logger *slog.Logger, defaultPath string) *Store {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	if cleaner == nil {
		cleaner = NewCleaner(logger)
	}
	return &Store{
		loader:      loader,
		cleaner:     cleaner,
		logger:      infrastructure.WithComponent(logger, "dataset_store"),
		tracer:      otel.Tracer("vgsales/dataprocessing"),
		defaultPath: normalizePath(defaultPath),
		now:         time.Now,
		datasets:    make(map[string]*domain.Dataset),
		errs:        make(map[string]error),
	}
}

// DefaultPath returns the path served by Current.
func (s *Store) DefaultPath() string {
	return s.defaultPath
}

// OnReload registers fn to run after every successful load or reload.
func (s *Store) OnReload(fn ReloadFunc) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Load returns the cached dataset for path, loading and cleaning it on a miss.
// Concurrent callers for the same path share one load.
func (s *Store) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	path = normalizePath(path)

	s.mu.RLock()
	ds, ok := s.datasets[path]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, _ := s.group.Do("load:"+path, func() (interface{}, error) {
		s.mu.RLock()
		ds, ok := s.datasets[path]
		s.mu.RUnlock()
		if ok {
			return ds, nil
		}
		return s.build(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Dataset), nil
}

// Reload rebuilds the dataset for path. On failure the previous dataset, if
// any, stays in place and the error is returned.
func (s *Store) Reload(ctx context.Context, path string) (*domain.Dataset, error) {
	path = normalizePath(path)
	v, err, _ := s.group.Do("reload:"+path, func() (interface{}, error) {
		return s.build(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Dataset), nil
}

// LoadDefault loads the default path.
func (s *Store) LoadDefault(ctx context.Context) (*domain.Dataset, error) {
	return s.Load(ctx, s.defaultPath)
}

// ReloadDefault reloads the default path.
func (s *Store) ReloadDefault(ctx context.Context) (*domain.Dataset, error) {
	return s.Reload(ctx, s.defaultPath)
}

// Invalidate drops the cached dataset for path. The next Load reads the file again.
func (s *Store) Invalidate(path string) {
	path = normalizePath(path)
	s.mu.Lock()
	delete(s.datasets, path)
	delete(s.errs, path)
	s.mu.Unlock()
	s.logger.Info("Dataset invalidated", slog.String("path", path))
}

// InvalidateAll drops every cached dataset.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	n := len(s.datasets)
	s.datasets = make(map[string]*domain.Dataset)
	s.errs = make(map[string]error)
	s.mu.Unlock()
	s.logger.Info("All datasets invalidated", slog.Int("count", n))
}

// Current returns the dataset of the default path, or an empty fallback when
// it has not been loaded successfully.
func (s *Store) Current() *domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ds, ok := s.datasets[s.defaultPath]; ok {
		return ds
	}
	return domain.EmptyDataset(s.defaultPath)
}

// LastError returns the error of the most recent failed attempt on the
// default path, or nil once a load succeeds.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[s.defaultPath]
}

// Loaded lists the cached paths in sorted order.
func (s *Store) Loaded() []string {
	s.mu.RLock()
	paths := make([]string, 0, len(s.datasets))
	for p := range s.datasets {
		paths = append(paths, p)
	}
	s.mu.RUnlock()
	sort.Strings(paths)
	return paths
}

// Status reports the state of the default dataset.
func (s *Store) Status() Status {
	s.mu.RLock()
	ds, ok := s.datasets[s.defaultPath]
	err := s.errs[s.defaultPath]
	s.mu.RUnlock()

	st := Status{Path: s.defaultPath, Fallback: !ok}
	if ok {
		report := ds.Report
		st.Records = ds.Len()
		st.LoadedAt = ds.LoadedAt
		st.Report = &report
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

func (s *Store) build(ctx context.Context, path string) (*domain.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.path", path)))
	defer span.End()

	start := s.now()
	raw, err := s.loader.Load(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		s.fail(ctx, path, err)
		return nil, err
	}

	records, report := s.cleaner.Clean(raw)
	ds := domain.NewDataset(path, records, report, s.now())
	elapsed := time.Since(start)

	s.mu.Lock()
	s.datasets[path] = ds
	delete(s.errs, path)
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("dataset.records", ds.Len()),
		attribute.Int("dataset.invalid_years", report.InvalidYears),
	)
	if path == s.defaultPath {
		infrastructure.DatasetRecords.Set(float64(ds.Len()))
		infrastructure.DatasetInvalidYears.Set(float64(report.InvalidYears))
	}
	infrastructure.DatasetReloadsTotal.WithLabelValues("success").Inc()
	infrastructure.DatasetLoadSeconds.Observe(elapsed.Seconds())

	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", path),
		slog.Int("records", ds.Len()),
		slog.Int("invalid_years", report.InvalidYears),
		slog.Duration("duration", elapsed))

	s.notify(ctx, ds)
	return ds, nil
}

func (s *Store) fail(ctx context.Context, path string, err error) {
	s.mu.Lock()
	s.errs[path] = err
	s.mu.Unlock()

	infrastructure.DatasetReloadsTotal.WithLabelValues("failure").Inc()
	s.logger.ErrorContext(ctx, "Dataset load failed",
		slog.String("path", path),
		slog.String("error", err.Error()))
}

func (s *Store) notify(ctx context.Context, ds *domain.Dataset) {
	s.subsMu.Lock()
	subs := make([]ReloadFunc, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subsMu.Unlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Reload subscriber panicked", slog.String("panic", fmt.Sprint(r)))
				}
			}()
			fn(ctx, ds)
		}()
	}
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
