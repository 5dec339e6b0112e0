package usecase

import (
	"context"
	"fmt"

	"github.com/september-cli/september/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// EnsureWorkingCopyUseCase materializes or refreshes the clone the commands
// run against.

type EnsureWorkingCopyUseCase struct {
	Provider repository.RepositoryProvider
	Fs       repository.FileSystemRepository
	Logger   *zap.Logger
}

// Execute clones source into clonePath on first use. On later runs it pulls
// new history and returns the working copy to the default branch tip so the
// tag listing is current.
func (uc *EnsureWorkingCopyUseCase) Execute(ctx context.Context, source, clonePath string) error {
	exists, err := afero.DirExists(uc.Fs, clonePath)
	if err != nil {
		return fmt.Errorf("failed to check clone directory: %w", err)
	}
	if !exists {
		uc.Logger.Info("cloning repository",
			zap.String("source", source), zap.String("path", clonePath))
		if err := uc.Provider.Clone(ctx, source, clonePath); err != nil {
			return fmt.Errorf("failed to clone repository: %w", err)
		}
		return nil
	}
	uc.Logger.Info("pulling changes", zap.String("source", source))
	if err := uc.Provider.Pull(ctx, clonePath, ""); err != nil {
		return fmt.Errorf("failed to pull changes: %w", err)
	}
	if err := uc.Provider.Update(ctx, clonePath, ""); err != nil {
		return fmt.Errorf("failed to update working copy: %w", err)
	}
	return nil
}
