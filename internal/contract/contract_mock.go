package contract

import (
	"context"

	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of Fetcher.
type MockFetcher struct {
	mock.Mock
}

var _ Fetcher = &MockFetcher{} // Compile-time check

// Fetch implements the contract.Fetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	ret := m.Called(ctx, source)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockDatasetLoader is a mock implementation of DatasetLoader.
type MockDatasetLoader struct {
	mock.Mock
}

var _ DatasetLoader = &MockDatasetLoader{} // Compile-time check

// LoadDataset implements the contract.DatasetLoader interface.
func (m *MockDatasetLoader) LoadDataset(ctx context.Context, source string) (schema.RawDataset, error) {
	ret := m.Called(ctx, source)
	ds, _ := ret.Get(0).(schema.RawDataset)
	return ds, ret.Error(1)
}

// LoadRegionNames implements the contract.DatasetLoader interface.
func (m *MockDatasetLoader) LoadRegionNames(ctx context.Context, source string) ([]string, error) {
	ret := m.Called(ctx, source)
	names, _ := ret.Get(0).([]string)
	return names, ret.Error(1)
}
