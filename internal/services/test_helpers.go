package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vgsales/internal/dataprocessing"
	"vgsales/pkg/contracts/domain"
)

// MockDatasetStore is a mock for the DatasetStore interface
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Current() *domain.Dataset {
	args := m.Called()
	return args.Get(0).(*domain.Dataset)
}

func (m *MockDatasetStore) Status() dataprocessing.Status {
	args := m.Called()
	return args.Get(0).(dataprocessing.Status)
}

func (m *MockDatasetStore) Loaded() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockDatasetStore) ReloadDefault(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockClientCounter is a mock for the ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	args := m.Called()
	return args.Int(0)
}
