// Package mockstorage provides a testify-based mock implementation
// of the key-value storage used by the session package.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StorageMock is a testify mock of storage.Storage.
type StorageMock struct {
	mock.Mock
}

// Get mocks reading a key.
func (m *StorageMock) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set mocks writing a key.
func (m *StorageMock) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Delete mocks removing a key.
func (m *StorageMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
