package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/september-cli/september/internal/domain"
)

const defaultRemoteName = "origin"

// gitProvider implements RepositoryProvider on top of go-git.
type gitProvider struct{}

// NewGitProvider creates the git backend.
func NewGitProvider() (RepositoryProvider, error) {
	return &gitProvider{}, nil
}

// Clone materializes a full working copy of source at path, tags included.
func (p *gitProvider) Clone(ctx context.Context, source, path string) error {
	_, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:  source,
		Tags: git.AllTags,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", source, err)
	}
	return nil
}

// Pull fetches new history and tags from the remote without touching the
// checked-out revision.
func (p *gitProvider) Pull(ctx context.Context, path, remote string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}
	if remote == "" {
		remote = defaultRemoteName
	}
	rem, err := repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	err = rem.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", remote)),
			config.RefSpec("+refs/tags/*:refs/tags/*"),
		},
		Tags: git.AllTags,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// Update checks out the given revision, detaching HEAD. An empty revision
// returns the working copy to the default branch tip.
func (p *gitProvider) Update(_ context.Context, path, revisionID string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}
	hash, err := p.resolveCheckoutTarget(repo, revisionID)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	err = worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", hash, err)
	}
	return nil
}

// resolveCheckoutTarget resolves a revision, falling back through the usual
// default branch names when none is given.
func (p *gitProvider) resolveCheckoutTarget(repo *git.Repository, revisionID string) (*plumbing.Hash, error) {
	if revisionID != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(revisionID))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve revision %s: %w", revisionID, err)
		}
		return hash, nil
	}
	for _, candidate := range []plumbing.Revision{"refs/remotes/origin/HEAD", "master", "main"} {
		if hash, err := repo.ResolveRevision(candidate); err == nil {
			return hash, nil
		}
	}
	return nil, errors.New("failed to resolve a default branch")
}

// ListTags lists every tag with the commit it points at. Annotated tags
// resolve through to their target commit; refs that cannot be resolved are
// skipped.
func (p *gitProvider) ListTags(_ context.Context, path string) ([]domain.Tag, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	tagRefs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []domain.Tag
	err = tagRefs.ForEach(func(ref *plumbing.Reference) error {
		// Try to get the commit directly (lightweight tag)
		commit, err := repo.CommitObject(ref.Hash())
		if err != nil {
			// If that fails, try as an annotated tag
			tagObj, err := repo.TagObject(ref.Hash())
			if err != nil {
				return nil // Skip this tag if we can't resolve it
			}
			commit, err = repo.CommitObject(tagObj.Target)
			if err != nil {
				return nil // Skip if we can't get the commit
			}
		}
		tags = append(tags, domain.Tag{Name: ref.Name().Short(), ID: commit.Hash.String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}
