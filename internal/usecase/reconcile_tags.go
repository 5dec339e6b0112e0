package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/september-cli/september/internal/domain"
	"github.com/september-cli/september/internal/repository"
	"go.uber.org/zap"
)

// ReconcileOptions bounds which listed tags are tracked.
type ReconcileOptions struct {
	// FirstTag names the oldest tag of interest. Tags are tracked from the
	// start of the listing through this tag inclusive; everything after it
	// is outside the window and gets forgotten.
	FirstTag string
	// TagPattern keeps only matching tag names when set. The match is a
	// search, so unanchored patterns hit anywhere in the name.
	TagPattern *regexp.Regexp
	// PurgeFiltered also drops cached entries whose names no longer match
	// TagPattern.
	PurgeFiltered bool
}

// ScanResult summarizes the cache mutations of one reconciliation pass.
type ScanResult struct {
	Observed int
	Added    int
	Moved    int
	Removed  int
}

// ReconcileTagsUseCase folds a fresh tag listing into the cache. New tags
// append in listing order, moved tags rebind and lose their processed flag,
// and cached tags observed beyond the window are removed. Running it twice
// against the same listing changes nothing the second time.

type ReconcileTagsUseCase struct {
	Provider repository.RepositoryProvider
	Logger   *zap.Logger
}

// Execute runs the use case against the working copy at repoPath.
func (uc *ReconcileTagsUseCase) Execute(
	ctx context.Context,
	cache *domain.TagCache,
	repoPath string,
	opts ReconcileOptions,
) (*ScanResult, error) {
	tags, err := uc.Provider.ListTags(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	result := &ScanResult{}
	insideWindow := true
	for _, tag := range tags {
		result.Observed++
		if insideWindow {
			uc.applyObservation(cache, tag, opts, result)
		} else if _, ok := cache.Get(tag.Name); ok {
			uc.Logger.Info("forgetting tag beyond the cutoff", zap.String("tag", tag.Name))
			cache.Delete(tag.Name)
			result.Removed++
		}
		// The window closes on the cutoff tag even when the pattern
		// filtered it out.
		if opts.FirstTag != "" && tag.Name == opts.FirstTag {
			insideWindow = false
		}
	}
	return result, nil
}

// applyObservation folds one in-window (name, revision) pair into the cache.
func (uc *ReconcileTagsUseCase) applyObservation(
	cache *domain.TagCache,
	tag domain.Tag,
	opts ReconcileOptions,
	result *ScanResult,
) {
	if opts.TagPattern != nil && !opts.TagPattern.MatchString(tag.Name) {
		if !opts.PurgeFiltered {
			return
		}
		if _, ok := cache.Get(tag.Name); ok {
			uc.Logger.Info("purging filtered tag", zap.String("tag", tag.Name))
			cache.Delete(tag.Name)
			result.Removed++
		}
		return
	}
	record, ok := cache.Get(tag.Name)
	switch {
	case !ok:
		uc.Logger.Info("adding tag",
			zap.String("tag", tag.Name), zap.String("revision", tag.ID))
		cache.Set(tag.Name, tag.ID)
		result.Added++
	case record.ID != tag.ID:
		uc.Logger.Info("moving tag",
			zap.String("tag", tag.Name), zap.String("revision", tag.ID))
		cache.Set(tag.Name, tag.ID)
		result.Moved++
	}
}
