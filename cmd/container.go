package cmd

import (
	"fmt"
	"os"

	"github.com/september-cli/september/internal/config"
	"github.com/september-cli/september/internal/logger"
	"github.com/september-cli/september/internal/orchestrator"
	"github.com/september-cli/september/internal/repository"
	"github.com/september-cli/september/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for one command invocation.

type container struct {
	cfg       *config.Config
	logger    *zap.Logger
	fsRepo    repository.FileSystemRepository
	provider  repository.RepositoryProvider
	cacheRepo repository.CacheRepository
	lock      repository.RunLock
	runner    service.CommandRunner
	workspace repository.Workspace
}

// containerOptions carries the command-line inputs the container is built
// from.
type containerOptions struct {
	repository string
	scm        string
	tmpDir     string
	configFile string
	verbose    bool
	// withProvider selects a backend. Status-only commands leave it unset so
	// they work without resolving one.
	withProvider bool
}

// newContainer creates a new container with all the dependencies wired up.
func newContainer(opts containerOptions) (*container, error) {
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	cfg, err := config.Load(fsRepo, opts.configFile, "")
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		return nil, err
	}
	tmpDir := opts.tmpDir
	if tmpDir == "" {
		tmpDir = cfg.TmpDir
	}
	workspace := repository.NewWorkspace(tmpDir, os.TempDir(), opts.repository)
	if err := fsRepo.MkdirAll(workspace.Root, repository.CacheDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", workspace.Root, err)
	}
	c := &container{
		cfg:       cfg,
		logger:    log,
		fsRepo:    fsRepo,
		cacheRepo: repository.NewCacheRepository(fsRepo),
		lock:      repository.NewRunLock(workspace.LockPath(), cfg.LockTimeout),
		runner:    service.NewCommandRunner(log),
		workspace: workspace,
	}
	if opts.withProvider {
		kind, err := repository.ResolveKind(fsRepo, opts.scm, opts.repository)
		if err != nil {
			return nil, err
		}
		provider, err := repository.NewProvider(kind)
		if err != nil {
			return nil, err
		}
		log.Debug("resolved repository backend", zap.String("kind", string(kind)))
		c.provider = provider
	}
	return c, nil
}

// newOrchestrator builds the replay orchestrator from the container's parts.
func (c *container) newOrchestrator() *orchestrator.ReplayOrchestrator {
	return orchestrator.NewReplayOrchestrator(
		c.provider,
		c.cacheRepo,
		c.fsRepo,
		c.runner,
		c.lock,
		c.workspace,
		c.logger,
	)
}

// close flushes buffered log output.
func (c *container) close() {
	// Sync errors on stderr are not actionable
	_ = c.logger.Sync()
}

// InitCommands registers all subcommands on the root command.
func InitCommands() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
}
