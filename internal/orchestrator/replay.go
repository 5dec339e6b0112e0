package orchestrator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/september-cli/september/internal/config"
	"github.com/september-cli/september/internal/domain"
	"github.com/september-cli/september/internal/repository"
	"github.com/september-cli/september/internal/service"
	"github.com/september-cli/september/internal/usecase"
	"go.uber.org/zap"
)

// ReplayConfig contains the command-line inputs for one run. The string
// overrides replace the corresponding config file settings when non-empty;
// the pointer overrides replace them when set at all, so a flag can force a
// boolean off.
type ReplayConfig struct {
	Repository    string
	ConfigFile    string
	ScanOnly      bool
	Command       string
	FirstTag      string
	TagPattern    string
	UseShell      *bool
	PurgeFiltered *bool
}

// Result aggregates what a run did. Process stays nil for scan-only runs.
type Result struct {
	Scan    *usecase.ScanResult
	Process *usecase.ProcessResult
}

// runSettings is the fully merged configuration a run executes with.
type runSettings struct {
	command  domain.CommandTemplate
	useShell bool
	options  usecase.ReconcileOptions
}

// ReplayOrchestrator drives a full run: lock the workspace, refresh the
// working copy, reconcile the tag listing into the cache, then execute the
// configured command once per unprocessed tag with a checkpoint after each.
type ReplayOrchestrator struct {
	provider  repository.RepositoryProvider
	cacheRepo repository.CacheRepository
	fsRepo    repository.FileSystemRepository
	runner    service.CommandRunner
	lock      repository.RunLock
	workspace repository.Workspace
	logger    *zap.Logger
}

// NewReplayOrchestrator creates a new replay orchestrator. The provider may
// be nil for status-only use.
func NewReplayOrchestrator(
	provider repository.RepositoryProvider,
	cacheRepo repository.CacheRepository,
	fsRepo repository.FileSystemRepository,
	runner service.CommandRunner,
	lock repository.RunLock,
	workspace repository.Workspace,
	logger *zap.Logger,
) *ReplayOrchestrator {
	return &ReplayOrchestrator{
		provider:  provider,
		cacheRepo: cacheRepo,
		fsRepo:    fsRepo,
		runner:    runner,
		lock:      lock,
		workspace: workspace,
		logger:    logger,
	}
}

// Execute runs the complete replay workflow.
func (o *ReplayOrchestrator) Execute(ctx context.Context, cfg ReplayConfig) (*Result, error) {
	log := o.logger.With(zap.String("run_id", uuid.New().String()))
	if err := o.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer o.releaseLock(log)
	log.Info("starting run",
		zap.String("repository", cfg.Repository),
		zap.String("workspace", o.workspace.Root),
		zap.Bool("scan_only", cfg.ScanOnly))
	if err := o.ensureWorkingCopy(ctx, cfg, log); err != nil {
		return nil, err
	}
	settings, err := o.resolveRunSettings(cfg)
	if err != nil {
		return nil, err
	}
	cache, err := o.cacheRepo.Load(o.workspace.CachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load tag cache: %w", err)
	}
	scan, err := o.reconcileTags(ctx, cache, settings.options, log)
	if err != nil {
		return nil, err
	}
	if err := o.cacheRepo.Save(o.workspace.CachePath(), cache); err != nil {
		return nil, fmt.Errorf("failed to save tag cache: %w", err)
	}
	log.Info("scan complete",
		zap.Int("observed", scan.Observed),
		zap.Int("added", scan.Added),
		zap.Int("moved", scan.Moved),
		zap.Int("removed", scan.Removed))
	if cfg.ScanOnly {
		return &Result{Scan: scan}, nil
	}
	process, err := o.processTags(ctx, cache, settings, log)
	if err != nil {
		return nil, err
	}
	log.Info("run complete",
		zap.Int("processed", process.Processed),
		zap.Int("skipped", process.Skipped))
	return &Result{Scan: scan, Process: process}, nil
}

// Status reports the cache contents without mutating anything. It takes the
// shared side of the lock so it never observes a half-written checkpoint.
func (o *ReplayOrchestrator) Status(ctx context.Context) (*usecase.CacheStatus, error) {
	if err := o.lock.AcquireShared(ctx); err != nil {
		return nil, err
	}
	defer o.releaseLock(o.logger)
	cache, err := o.cacheRepo.Load(o.workspace.CachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load tag cache: %w", err)
	}
	inspect := &usecase.InspectCacheUseCase{}
	return inspect.Execute(cache), nil
}

// resolveRunSettings merges the config file in the clone (or the explicit
// one) with the flag overrides. The command requirement is only enforced
// when tags will actually be processed.
func (o *ReplayOrchestrator) resolveRunSettings(cfg ReplayConfig) (*runSettings, error) {
	fileCfg, err := config.Load(o.fsRepo, cfg.ConfigFile, o.workspace.ClonePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Command != "" {
		fileCfg.Command = cfg.Command
	}
	if cfg.FirstTag != "" {
		fileCfg.FirstTag = cfg.FirstTag
	}
	if cfg.TagPattern != "" {
		fileCfg.TagPattern = cfg.TagPattern
	}
	if cfg.UseShell != nil {
		fileCfg.UseShell = strconv.FormatBool(*cfg.UseShell)
	}
	if cfg.PurgeFiltered != nil {
		fileCfg.PurgeFiltered = *cfg.PurgeFiltered
	}
	if !cfg.ScanOnly {
		if err := fileCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	pattern, err := fileCfg.CompileTagPattern()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &runSettings{
		command:  domain.CommandTemplate(fileCfg.Command),
		useShell: fileCfg.ShellEnabled(),
		options: usecase.ReconcileOptions{
			FirstTag:      fileCfg.FirstTag,
			TagPattern:    pattern,
			PurgeFiltered: fileCfg.PurgeFiltered,
		},
	}, nil
}

func (o *ReplayOrchestrator) ensureWorkingCopy(ctx context.Context, cfg ReplayConfig, log *zap.Logger) error {
	uc := &usecase.EnsureWorkingCopyUseCase{
		Provider: o.provider,
		Fs:       o.fsRepo,
		Logger:   log,
	}
	return uc.Execute(ctx, cfg.Repository, o.workspace.ClonePath())
}

func (o *ReplayOrchestrator) reconcileTags(
	ctx context.Context,
	cache *domain.TagCache,
	opts usecase.ReconcileOptions,
	log *zap.Logger,
) (*usecase.ScanResult, error) {
	uc := &usecase.ReconcileTagsUseCase{
		Provider: o.provider,
		Logger:   log,
	}
	return uc.Execute(ctx, cache, o.workspace.ClonePath(), opts)
}

func (o *ReplayOrchestrator) processTags(
	ctx context.Context,
	cache *domain.TagCache,
	settings *runSettings,
	log *zap.Logger,
) (*usecase.ProcessResult, error) {
	uc := &usecase.ProcessTagsUseCase{
		Provider:  o.provider,
		Runner:    o.runner,
		CacheRepo: o.cacheRepo,
		Logger:    log,
	}
	return uc.Execute(ctx, cache, o.workspace.CachePath(), o.workspace.ClonePath(), settings.command, settings.useShell)
}

func (o *ReplayOrchestrator) releaseLock(log *zap.Logger) {
	if err := o.lock.Release(); err != nil {
		log.Warn("failed to release workspace lock", zap.Error(err))
	}
}
