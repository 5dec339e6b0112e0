package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystemRepository defines the interface for filesystem operations.

type FileSystemRepository interface {
	afero.Fs
}

// Workspace fixes the on-disk layout of one repository's working area. The
// clone, the tag cache and the run lock all live under a single root so a
// repository's replay state moves as one directory.
type Workspace struct {
	Root string
}

// NewWorkspace returns the workspace rooted at dir. When dir is empty a
// per-repository default is derived under baseDir from the locator, so two
// repositories never share replay state by accident.
func NewWorkspace(dir, baseDir, locator string) Workspace {
	if dir == "" {
		sum := sha256.Sum256([]byte(locator))
		dir = filepath.Join(baseDir, "september", hex.EncodeToString(sum[:4]))
	}
	return Workspace{Root: dir}
}

// ClonePath returns where the working copy lives.
func (w Workspace) ClonePath() string {
	return filepath.Join(w.Root, "clone")
}

// CachePath returns the tag cache file location.
func (w Workspace) CachePath() string {
	return filepath.Join(w.Root, "september.json")
}

// LockPath returns the run lock file location.
func (w Workspace) LockPath() string {
	return filepath.Join(w.Root, "september.lock")
}
