package repository

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ResolveKind maps an explicit kind name to a backend, inferring one from
// the locator when the name is empty or "guess".
func ResolveKind(fs afero.Fs, name, locator string) (Kind, error) {
	switch Kind(name) {
	case KindGit, KindMercurial:
		return Kind(name), nil
	case KindGuess, "":
		return DetectKind(fs, locator)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// DetectKind infers the backend from a repository locator. SSH URLs are
// classified by their user part, https URLs by a .git path suffix, and
// local directories by their metadata subdirectory.
func DetectKind(fs afero.Fs, locator string) (Kind, error) {
	parsed, err := url.Parse(locator)
	if err != nil {
		parsed = &url.URL{}
	}
	switch parsed.Scheme {
	case "ssh":
		switch parsed.User.Username() {
		case "git":
			return KindGit, nil
		case "hg":
			return KindMercurial, nil
		}
	case "https":
		if strings.HasSuffix(parsed.Path, ".git") {
			return KindGit, nil
		}
	case "":
		if isDir(fs, filepath.Join(locator, ".git")) {
			return KindGit, nil
		}
		if isDir(fs, filepath.Join(locator, ".hg")) {
			return KindMercurial, nil
		}
	}
	return "", fmt.Errorf("%w: cannot infer a backend for %q, pass one explicitly", ErrUnknownProvider, locator)
}

func isDir(fs afero.Fs, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}
