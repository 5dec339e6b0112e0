package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/september-cli/september/internal/domain"
)

// Kind identifies a version-control backend.
type Kind string

const (
	// KindGuess asks for backend inference from the repository locator.
	KindGuess Kind = "guess"
	// KindGit selects the git backend.
	KindGit Kind = "git"
	// KindMercurial selects the mercurial backend.
	KindMercurial Kind = "mercurial"
)

// ErrUnknownProvider is returned when no backend matches a kind or locator.
var ErrUnknownProvider = errors.New("unknown repository provider")

// RepositoryProvider is the capability set the replay flow consumes from a
// version-control backend. Implementations operate on the working copy path
// passed per call. The order ListTags yields tags in is backend-specific and
// becomes the processing order for newly tracked tags.

type RepositoryProvider interface {
	Clone(ctx context.Context, source, path string) error
	Pull(ctx context.Context, path, remote string) error
	Update(ctx context.Context, path, revisionID string) error
	ListTags(ctx context.Context, path string) ([]domain.Tag, error)
}

// providerConstructors maps each backend kind to its constructor.
var providerConstructors = map[Kind]func() (RepositoryProvider, error){
	KindGit:       NewGitProvider,
	KindMercurial: NewMercurialProvider,
}

// NewProvider builds the provider implementation for kind.
func NewProvider(kind Kind) (RepositoryProvider, error) {
	constructor, ok := providerConstructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, kind)
	}
	return constructor()
}
