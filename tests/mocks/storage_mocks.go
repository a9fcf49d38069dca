package mocks

import (
	"io"
	"path/filepath"

	"github.com/stretchr/testify/mock"

	"github.com/filevaultapp/filevault-backend/internal/storage"
)

// MockFileStorage implements storage.FileStorage
type MockFileStorage struct {
	mock.Mock
}

var _ storage.FileStorage = (*MockFileStorage)(nil)

// NewKey generates a storage key for an original filename
func (m *MockFileStorage) NewKey(originalName string) string {
	args := m.Called(originalName)
	return args.String(0)
}

// Save writes the content under the given key
func (m *MockFileStorage) Save(key string, content io.Reader) error {
	args := m.Called(key, content)
	return args.Error(0)
}

// EnsureExists writes the fallback content if the key is missing
func (m *MockFileStorage) EnsureExists(key string, fallback []byte) error {
	args := m.Called(key, fallback)
	return args.Error(0)
}

// Open returns a reader for the stored content
func (m *MockFileStorage) Open(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Delete removes the stored content
func (m *MockFileStorage) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// RemoveFolder removes the named folder and its contents
func (m *MockFileStorage) RemoveFolder(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// DiskPath joins path parts on the storage root
func (m *MockFileStorage) DiskPath(parts ...string) string {
	called := m.Called(parts)
	if s := called.String(0); s != "" {
		return s
	}
	return filepath.Join(parts...)
}
