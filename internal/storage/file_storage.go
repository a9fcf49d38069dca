package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Security errors
var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrFileNotFound  = errors.New("file not found")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
)

// MaxFileSize is the maximum allowed size per uploaded file (50 MB)
const MaxFileSize = 50 * 1024 * 1024

// MaxFilesPerUpload caps how many files a single upload request may carry
const MaxFilesPerUpload = 10

// keyPrefix is the directory under the storage root where files live.
// Storage keys embed it so they stay stable if the root moves.
const keyPrefix = "uploads"

// FileStorage defines the interface for file storage operations. Keys are
// relative paths of the form "uploads/<name>" produced by NewKey.
type FileStorage interface {
	NewKey(originalName string) string
	Save(key string, content io.Reader) error
	EnsureExists(key string, contents []byte) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
	RemoveFolder(name string) error
	DiskPath(parts ...string) string
}

// localStorage implements FileStorage using the local filesystem
type localStorage struct {
	root string
}

// NewLocalStorage creates a new localStorage instance rooted at the given
// directory, creating it if necessary.
func NewLocalStorage(root string) (FileStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, keyPrefix), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{root: root}, nil
}

// validateKey ensures a key resolves inside the storage root (prevents traversal)
func (s *localStorage) validateKey(key string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(key))

	if filepath.IsAbs(cleanPath) {
		return "", ErrPathTraversal
	}
	if strings.Contains(cleanPath, "..") {
		return "", ErrPathTraversal
	}

	fullPath := filepath.Join(s.root, cleanPath)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("invalid storage root: %w", err)
	}

	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) &&
		absPath != absRoot {
		return "", ErrPathTraversal
	}

	return absPath, nil
}

// ValidateFile checks the size of an uploaded file
func ValidateFile(size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// NewKey builds a unique storage key for an uploaded file. The key keeps the
// original extension but replaces the name with a millisecond timestamp and a
// random suffix so concurrent uploads of the same filename never collide.
func (s *localStorage) NewKey(originalName string) string {
	ext := filepath.Ext(originalName)
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		// crypto/rand should never fail; fall back to a UUID suffix
		return keyPrefix + "/" + fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
	}
	return keyPrefix + "/" + fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), n.Int64(), ext)
}

// Save writes the content under the given key
func (s *localStorage) Save(key string, content io.Reader) error {
	fullPath, err := s.validateKey(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create storage subdirectory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// EnsureExists re-materializes a file on disk when the database row survived
// but the bytes went missing, e.g. after a cleared volume. A file that is
// already present is left untouched.
func (s *localStorage) EnsureExists(key string, contents []byte) error {
	fullPath, err := s.validateKey(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create storage subdirectory: %w", err)
	}
	if err := os.WriteFile(fullPath, contents, 0644); err != nil {
		return fmt.Errorf("failed to restore file: %w", err)
	}
	return nil
}

// Open retrieves a file by its key
func (s *localStorage) Open(key string) (io.ReadCloser, error) {
	fullPath, err := s.validateKey(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file by its key. A missing file is not an error: the
// database row is the source of truth and the bytes may already be gone.
func (s *localStorage) Delete(key string) error {
	fullPath, err := s.validateKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// RemoveFolder removes a named directory under the uploads root along with
// anything left inside it. Used when a folder record is deleted.
func (s *localStorage) RemoveFolder(name string) error {
	fullPath, err := s.validateKey(keyPrefix + "/" + name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to remove folder: %w", err)
	}
	return nil
}

// DiskPath joins the given parts onto the storage root. It reports where a
// key or folder would live on disk without touching the filesystem.
func (s *localStorage) DiskPath(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}
