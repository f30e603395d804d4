package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vgsales/internal/dataprocessing"
	"vgsales/pkg/contracts/domain"
)

func TestDatasetInfo(t *testing.T) {
	ds := sampleDataset()
	report := domain.CleanReport{Rows: 6, InvalidYears: 1}

	store := new(MockDatasetStore)
	store.On("Status").Return(dataprocessing.Status{
		Path: ds.Path, Records: ds.Len(), LoadedAt: loadedAt, Report: &report,
	})
	store.On("Loaded").Return([]string{"vgsales.csv"})
	store.On("Current").Return(ds)

	info := NewDatasetService(store, discardLogger()).Info(context.Background())
	assert.Equal(t, "vgsales.csv", info.Path)
	assert.Equal(t, 6, info.Records)
	assert.Equal(t, loadedAt, info.LoadedAt)
	assert.False(t, info.Fallback)
	assert.Equal(t, &report, info.CleanReport)
	assert.Equal(t, []string{"vgsales.csv"}, info.CachedPaths)
	require.NotNil(t, info.YearRange)
	assert.Equal(t, domain.YearRange{Min: 1985, Max: 2013}, *info.YearRange)
	store.AssertExpectations(t)
}

func TestDatasetInfoFallback(t *testing.T) {
	store := new(MockDatasetStore)
	store.On("Status").Return(dataprocessing.Status{Path: "vgsales.csv", Fallback: true, Error: "boom"})
	store.On("Loaded").Return([]string{})
	store.On("Current").Return(domain.EmptyDataset("vgsales.csv"))

	info := NewDatasetService(store, discardLogger()).Info(context.Background())
	assert.True(t, info.Fallback)
	assert.Equal(t, "boom", info.LastError)
	assert.Nil(t, info.YearRange)
}

func TestDatasetReload(t *testing.T) {
	ds := sampleDataset()
	store := new(MockDatasetStore)
	store.On("ReloadDefault", mock.Anything).Return(ds, nil).Once()
	store.On("Status").Return(dataprocessing.Status{Path: ds.Path, Records: ds.Len(), LoadedAt: time.Now()})
	store.On("Loaded").Return([]string{ds.Path})
	store.On("Current").Return(ds)

	info, err := NewDatasetService(store, discardLogger()).Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, info.Records)
	store.AssertExpectations(t)
}

func TestDatasetReloadFailure(t *testing.T) {
	loadErr := &dataprocessing.DataLoadingError{Path: "vgsales.csv", Kind: dataprocessing.KindMissingColumns, Columns: []string{"Year"}}
	store := new(MockDatasetStore)
	store.On("ReloadDefault", mock.Anything).Return(nil, loadErr)

	svc := NewDatasetService(store, discardLogger())
	var notified []string
	svc.OnReloadFailure(func(ctx context.Context, path string, err error) {
		notified = append(notified, path)
	})

	_, err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"vgsales.csv"}, notified)

	var target *dataprocessing.DataLoadingError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "vgsales.csv", target.Path)
	assert.ErrorIs(t, err, dataprocessing.ErrDataLoading)
	store.AssertNotCalled(t, "Status")
}
