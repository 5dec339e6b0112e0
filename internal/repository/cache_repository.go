package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/september-cli/september/internal/domain"
	"github.com/spf13/afero"
)

const (
	// CacheFilePermissions is the mode for the persisted tag cache.
	CacheFilePermissions = 0600
	// CacheDirPermissions is the mode for workspace directories.
	CacheDirPermissions = 0700
)

// CacheRepository persists the tag cache between runs. Save replaces the
// file wholesale; there are no partial updates.
type CacheRepository interface {
	Load(path string) (*domain.TagCache, error)
	Save(path string, cache *domain.TagCache) error
}

// fileCacheRepository stores the cache as a JSON file through afero.
type fileCacheRepository struct {
	fs afero.Fs
}

// NewCacheRepository creates a file-backed cache repository.
func NewCacheRepository(fs afero.Fs) CacheRepository {
	return &fileCacheRepository{fs: fs}
}

// Load reads the cache at path. A missing file is an empty cache, not an
// error; an unreadable or malformed file is fatal so stale state is never
// silently discarded.
func (r *fileCacheRepository) Load(path string) (*domain.TagCache, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewTagCache(), nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	cache := domain.NewTagCache()
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}
	return cache, nil
}

// Save writes the cache at path. The content goes to a temp file first and
// is renamed into place, so an interrupted write never truncates the last
// good checkpoint.
func (r *fileCacheRepository) Save(path string, cache *domain.TagCache) error {
	if err := r.fs.MkdirAll(filepath.Dir(path), CacheDirPermissions); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	raw, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	var data bytes.Buffer
	if err := json.Indent(&data, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format cache: %w", err)
	}
	data.WriteByte('\n')
	// Write atomically using temp file
	tempFile := path + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data.Bytes(), CacheFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := r.fs.Rename(tempFile, path); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename temp cache file: %w", err)
	}
	return nil
}
