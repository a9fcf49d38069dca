package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey_PathTraversalDots(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	ls := store.(*localStorage)

	tests := []struct {
		name string
		key  string
	}{
		{"simple traversal", "../etc/passwd"},
		{"double traversal", "../../etc/passwd"},
		{"nested traversal", "uploads/../../../etc/passwd"},
		{"windows style", "..\\..\\windows\\system32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.validateKey(tt.key)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

func TestValidateKey_AbsolutePath(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	ls := store.(*localStorage)

	_, err = ls.validateKey("/etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestValidateKey_ValidKey(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	ls := store.(*localStorage)

	tests := []struct {
		name string
		key  string
	}{
		{"simple file", "uploads/file.txt"},
		{"timestamped key", "uploads/1724800000000-123456789.pdf"},
		{"folder path", "uploads/Documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ls.validateKey(tt.key)
			assert.NoError(t, err)

			absBase, _ := filepath.Abs(tempDir)
			assert.True(t, strings.HasPrefix(result, absBase))
		})
	}
}

func TestNewKey_Format(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	key := store.NewKey("report.pdf")
	assert.Regexp(t, regexp.MustCompile(`^uploads/\d+-\d+\.pdf$`), key)
}

func TestNewKey_KeepsExtension(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(store.NewKey("a.tar.gz"), ".gz"))
	assert.True(t, strings.HasSuffix(store.NewKey("photo.JPG"), ".JPG"))

	// No extension stays extensionless
	key := store.NewKey("README")
	assert.NotContains(t, filepath.Base(key), ".")
}

func TestNewKey_Unique(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key := store.NewKey("file.txt")
		assert.False(t, seen[key], "duplicate key generated: %s", key)
		seen[key] = true
	}
}

func TestOpen_PathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	_, err = store.Open("../../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestDelete_PathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	err = store.Delete("../../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestOpen_FileNotFound(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	_, err = store.Open("uploads/nonexistent.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestValidateFile_SizeLimit(t *testing.T) {
	assert.NoError(t, ValidateFile(MaxFileSize-1))
	assert.NoError(t, ValidateFile(MaxFileSize))
	assert.ErrorIs(t, ValidateFile(MaxFileSize+1), ErrFileTooLarge)
}

func TestSaveAndOpen_Integration(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	key := store.NewKey("test.txt")
	err = store.Save(key, strings.NewReader("test content"))
	require.NoError(t, err)

	reader, err := store.Open(key)
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, 100)
	n, _ := reader.Read(buf)
	assert.Equal(t, "test content", string(buf[:n]))
}

func TestDelete_Integration(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	key := store.NewKey("test.txt")
	require.NoError(t, store.Save(key, strings.NewReader("test content")))

	err = store.Delete(key)
	assert.NoError(t, err)

	_, err = store.Open(key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDelete_NonexistentFile(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	// Deleting a missing file is not an error
	err = store.Delete("uploads/nonexistent.txt")
	assert.NoError(t, err)
}

func TestEnsureExists_RestoresMissingFile(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	key := store.NewKey("restored.txt")
	err = store.EnsureExists(key, []byte("restored content"))
	require.NoError(t, err)

	reader, err := store.Open(key)
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, 100)
	n, _ := reader.Read(buf)
	assert.Equal(t, "restored content", string(buf[:n]))
}

func TestEnsureExists_LeavesExistingFileAlone(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	key := store.NewKey("original.txt")
	require.NoError(t, store.Save(key, strings.NewReader("original")))

	err = store.EnsureExists(key, []byte("replacement"))
	require.NoError(t, err)

	reader, err := store.Open(key)
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, 100)
	n, _ := reader.Read(buf)
	assert.Equal(t, "original", string(buf[:n]))
}

func TestRemoveFolder_RemovesContents(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	diskPath := store.DiskPath("uploads", "ToDelete")
	require.NoError(t, os.MkdirAll(diskPath, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(diskPath, "f.txt"), []byte("x"), 0644))

	err = store.RemoveFolder("ToDelete")
	assert.NoError(t, err)

	_, err = os.Stat(diskPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveFolder_RejectsTraversal(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	assert.ErrorIs(t, store.RemoveFolder("../outside"), ErrPathTraversal)
}

func TestRemoveFolder_MissingFolderIsNoop(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	assert.NoError(t, store.RemoveFolder("never-created"))
}

func TestDiskPath_JoinsOnRoot(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempDir, "uploads", "Documents"), store.DiskPath("uploads", "Documents"))
}

func TestNewLocalStorage_CreatesUploadsDirectory(t *testing.T) {
	tempDir := t.TempDir()
	newDir := filepath.Join(tempDir, "new", "nested", "dir")

	_, err := NewLocalStorage(newDir)
	assert.NoError(t, err)

	info, err := os.Stat(filepath.Join(newDir, "uploads"))
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
