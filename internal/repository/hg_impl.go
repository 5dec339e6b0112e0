package repository

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/september-cli/september/internal/domain"
)

// hgProvider drives a mercurial working copy through the hg executable.
type hgProvider struct {
	binary string
}

// NewMercurialProvider creates the mercurial backend.
func NewMercurialProvider() (RepositoryProvider, error) {
	return &hgProvider{binary: "hg"}, nil
}

// hgTagLine matches one line of tag listing output: tag names, a space, a
// revision hash. A revision carrying several tags keeps them space-joined in
// the name group.
var hgTagLine = regexp.MustCompile(`^(.+) ([0-9a-f]+)$`)

// Clone materializes a full working copy of source at path.
func (p *hgProvider) Clone(ctx context.Context, source, path string) error {
	if _, err := p.run(ctx, "", "clone", source, path); err != nil {
		return fmt.Errorf("failed to clone %s: %w", source, err)
	}
	return nil
}

// Pull fetches new history without touching the checked-out revision.
func (p *hgProvider) Pull(ctx context.Context, path, remote string) error {
	args := []string{"pull"}
	if remote != "" {
		args = append(args, remote)
	}
	if _, err := p.run(ctx, path, args...); err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}

// Update checks out the given revision. An empty revision returns the
// working copy to the default branch.
func (p *hgProvider) Update(ctx context.Context, path, revisionID string) error {
	if revisionID == "" {
		revisionID = "default"
	}
	if _, err := p.run(ctx, path, "update", "--clean", revisionID); err != nil {
		return fmt.Errorf("failed to update to %s: %w", revisionID, err)
	}
	return nil
}

// ListTags lists tagged revisions, one line per revision.
func (p *hgProvider) ListTags(ctx context.Context, path string) ([]domain.Tag, error) {
	output, err := p.run(ctx, path, "log", "-r", "tag()", "--template", "{tags} {node}\n")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return p.parseTagListing(output), nil
}

// parseTagListing extracts (name, revision) pairs, silently dropping lines
// that do not look like a tag line.
func (p *hgProvider) parseTagListing(output []byte) []domain.Tag {
	var tags []domain.Tag
	for _, line := range strings.Split(string(output), "\n") {
		match := hgTagLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		tags = append(tags, domain.Tag{Name: match[1], ID: match[2]})
	}
	return tags
}

// run executes hg inside the working copy, capturing output and folding
// stderr into the returned error.
func (p *hgProvider) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return nil, fmt.Errorf("hg %s failed: %w (stderr: %s)", args[0], err, errMsg)
		}
		return nil, fmt.Errorf("hg %s failed: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
