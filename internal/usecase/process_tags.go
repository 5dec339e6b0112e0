package usecase

import (
	"context"
	"fmt"

	"github.com/september-cli/september/internal/domain"
	"github.com/september-cli/september/internal/repository"
	"github.com/september-cli/september/internal/service"
	"go.uber.org/zap"
)

// ProcessResult counts the processing loop's work.
type ProcessResult struct {
	Processed int
	Skipped   int
}

// ProcessTagsUseCase walks the cache in order, checks out each unprocessed
// tag's revision and runs the command against it. The cache is saved after
// every success, so a crash loses at most the attempt in flight, and any
// failure halts the walk with earlier completions already durable.

type ProcessTagsUseCase struct {
	Provider  repository.RepositoryProvider
	Runner    service.CommandRunner
	CacheRepo repository.CacheRepository
	Logger    *zap.Logger
}

// Execute runs the use case. The command template is rendered per tag with
// the revision, the working copy path and the tag name.
func (uc *ProcessTagsUseCase) Execute(
	ctx context.Context,
	cache *domain.TagCache,
	cachePath string,
	repoPath string,
	template domain.CommandTemplate,
	useShell bool,
) (*ProcessResult, error) {
	result := &ProcessResult{}
	for name, record := range cache.Walk() {
		if record.Processed {
			uc.Logger.Info("skipping processed tag", zap.String("tag", name))
			result.Skipped++
			continue
		}
		uc.Logger.Info("updating working copy",
			zap.String("tag", name), zap.String("revision", record.ID))
		if err := uc.Provider.Update(ctx, repoPath, record.ID); err != nil {
			return result, fmt.Errorf("failed to update working copy to %s: %w", record.ID, err)
		}
		command := template.Render(record.ID, repoPath, name)
		if err := uc.Runner.Run(ctx, command, repoPath, useShell); err != nil {
			return result, fmt.Errorf("command failed for tag %s: %w", name, err)
		}
		cache.MarkProcessed(name)
		if err := uc.CacheRepo.Save(cachePath, cache); err != nil {
			return result, fmt.Errorf("failed to save cache after tag %s: %w", name, err)
		}
		result.Processed++
	}
	return result, nil
}
