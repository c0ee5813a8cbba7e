package cmd

import (
	"github.com/versync/versync/internal/config"
	"github.com/versync/versync/internal/orchestrator"
	"github.com/versync/versync/internal/repository"
	"github.com/versync/versync/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// container holds all the dependencies for the application.
type container struct {
	cfg *config.Config
	log *zap.SugaredLogger

	fsRepo      repository.FileSystemRepository
	gitRepo     repository.GitRepository
	ghRepo      repository.GithubRepository
	manifestSvc service.ManifestService
	stateRepo   repository.ReleaseStateRepository
}

// newContainer creates a new container with all the dependencies.
func newContainer(configPath string) (*container, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())

	// The git repository is optional at construction time. Sync-only and
	// dry runs work outside a repository; anything that commits fails
	// later with a precise error.
	gitRepo, err := repository.NewGitRepository()
	if err != nil {
		log.Warnw("not inside a git repository, tagging unavailable", "error", err)
		gitRepo = nil
	}

	// GitHub repository is optional - only create if token is provided.
	var ghRepo repository.GithubRepository
	if cfg.GithubToken != "" {
		ghRepo, err = repository.NewGithubRepository(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	}

	return &container{
		cfg:         cfg,
		log:         log,
		fsRepo:      fsRepo,
		gitRepo:     gitRepo,
		ghRepo:      ghRepo,
		manifestSvc: service.NewManifestService(fsRepo),
		stateRepo:   repository.NewJSONStateRepository(fsRepo, cfg.StateDir),
	}, nil
}

func (c *container) newReleaseOrchestrator() *orchestrator.ReleaseOrchestrator {
	return orchestrator.NewReleaseOrchestrator(
		c.cfg,
		c.gitRepo,
		c.ghRepo,
		c.manifestSvc,
		c.stateRepo,
		c.log,
	)
}

// newLogger builds the console logger used across the CLI.
func newLogger() (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// InitCommands registers the subcommands. The dependency container is
// built per run, after flags are parsed.
func InitCommands() error {
	rootCmd.AddCommand(newVersionCmd())
	return nil
}
