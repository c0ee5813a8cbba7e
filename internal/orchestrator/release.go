package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
	"github.com/versync/versync/internal/config"
	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/repository"
	"github.com/versync/versync/internal/service"
	"github.com/versync/versync/internal/usecase"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ReleaseConfig contains per-invocation settings for the release flow.
type ReleaseConfig struct {
	// Kind is the explicit bump kind from the CLI. Empty means
	// automatic classification from commit history; BumpSync stops the
	// run after the synchronization step.
	Kind domain.BumpKind
	// DryRun stops before any file write, commit or tag.
	DryRun bool
	// PublishRelease creates a GitHub release after tagging.
	PublishRelease bool
}

// ReleaseOrchestrator drives one release run: sync, classify, bump,
// rewrite, commit and tag.
type ReleaseOrchestrator struct {
	cfg         *config.Config
	gitRepo     repository.GitRepository
	githubRepo  repository.GithubRepository
	manifestSvc service.ManifestService
	stateRepo   repository.ReleaseStateRepository
	log         *zap.SugaredLogger
}

// NewReleaseOrchestrator creates a new release orchestrator. gitRepo and
// githubRepo may be nil; the flow fails only when a step needs them.
func NewReleaseOrchestrator(
	cfg *config.Config,
	gitRepo repository.GitRepository,
	githubRepo repository.GithubRepository,
	manifestSvc service.ManifestService,
	stateRepo repository.ReleaseStateRepository,
	log *zap.SugaredLogger,
) *ReleaseOrchestrator {
	return &ReleaseOrchestrator{
		cfg:         cfg,
		gitRepo:     gitRepo,
		githubRepo:  githubRepo,
		manifestSvc: manifestSvc,
		stateRepo:   stateRepo,
		log:         log,
	}
}

// Execute runs the release flow once.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, rc ReleaseConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultRunTimeout)
	defer cancel()

	// Step 1: Sync secondary manifest to the primary version. In a dry
	// run the mismatch is reported but nothing is written.
	syncResult, err := o.syncVersions(ctx, rc.DryRun)
	if err != nil {
		return fmt.Errorf("failed to sync versions: %w", err)
	}
	o.reportSync(syncResult)
	if rc.Kind == domain.BumpSync {
		switch {
		case syncResult.Pending:
			o.printStatus("Dry run complete - secondary manifest would be synced")
		case syncResult.Changed:
			o.printStatus("Version sync completed successfully")
		default:
			o.printStatus("Versions were already in sync")
		}
		return nil
	}

	// Step 2: Resolve the bump kind, classifying commit history when no
	// explicit kind was supplied.
	kind, ok, err := o.resolveBumpKind(ctx, rc)
	if err != nil {
		return err
	}
	if !ok {
		o.printStatus("No version bump needed (no feat/fix/perf commits found)")
		return nil
	}

	// Step 3: Compute the next version from the primary manifest.
	current, err := o.manifestSvc.ReadVersion(o.cfg.PrimaryRef())
	if err != nil {
		return fmt.Errorf("failed to read current version: %w", err)
	}
	next, err := current.Bump(kind)
	if err != nil {
		return err
	}
	if err := ValidateVersion(next.Bare()); err != nil {
		return fmt.Errorf("invalid version: %w", err)
	}
	tag := o.cfg.TagPrefix + next.Bare()
	if err := ValidateTagName(tag); err != nil {
		return fmt.Errorf("invalid tag name: %w", err)
	}
	o.printStatus(fmt.Sprintf("Bumping version from %s to %s (%s)", current.Bare(), next.Bare(), kind))

	if rc.DryRun {
		o.printStatus(fmt.Sprintf("Dry run complete - would update manifests and create tag %s", tag))
		return nil
	}

	// Step 4: Rewrite both manifests. From here on a failure leaves the
	// working tree modified; there is no compensating rollback.
	files, err := o.updateManifests(ctx, next)
	if err != nil {
		return err
	}
	o.printStatus(fmt.Sprintf("Updated version to %s in: %v", next.Bare(), files))

	// Step 5: Commit and tag.
	if err := o.commitAndTag(ctx, next, tag, files); err != nil {
		return err
	}
	o.printStatus(fmt.Sprintf("Created tag: %s", tag))

	// Step 6: Journal the outcome. Failure here never fails the run.
	record := domain.NewReleaseRecord(kind, current.Bare(), next.Bare(), tag)
	record.FilesWritten = files
	record.Synced = syncResult.Changed
	if err := o.stateRepo.Save(ctx, record); err != nil {
		o.log.Warnw("failed to record release in journal", "error", err)
	}

	// Step 7: Optionally publish a GitHub release for the tag.
	if rc.PublishRelease {
		if err := o.publishRelease(ctx, next, tag); err != nil {
			return fmt.Errorf("failed to publish GitHub release: %w", err)
		}
		o.printStatus(fmt.Sprintf("Published GitHub release for %s", tag))
	}

	o.printStatus(fmt.Sprintf("Version successfully bumped to %s", next.Bare()))
	return nil
}

func (o *ReleaseOrchestrator) syncVersions(ctx context.Context, dryRun bool) (*usecase.SyncResult, error) {
	uc := &usecase.SyncVersionsUseCase{
		Manifests: o.manifestSvc,
		Primary:   o.cfg.PrimaryRef(),
		Secondary: o.cfg.SecondaryRef(),
		DryRun:    dryRun,
		Log:       o.log,
	}
	return uc.Execute(ctx)
}

func (o *ReleaseOrchestrator) reportSync(result *usecase.SyncResult) {
	switch {
	case result.SecondarySkipped:
		o.printStatus("Secondary manifest skipped (no version field found)")
	case result.Pending:
		o.printStatus(fmt.Sprintf("Would sync secondary manifest to %s", result.Version.Bare()))
	case result.Changed:
		o.printStatus(fmt.Sprintf("Synced secondary manifest to %s", result.Version.Bare()))
	default:
		o.printStatus(fmt.Sprintf("Versions already in sync: %s", result.Version.Bare()))
	}
}

func (o *ReleaseOrchestrator) resolveBumpKind(
	ctx context.Context,
	rc ReleaseConfig,
) (domain.BumpKind, bool, error) {
	if rc.Kind != "" {
		return rc.Kind, true, nil
	}
	if o.gitRepo == nil {
		return "", false, fmt.Errorf("automatic mode requires a git repository")
	}
	uc := &usecase.ClassifyCommitsUseCase{GitRepo: o.gitRepo}
	kind, ok, err := uc.Execute(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to classify commits: %w", err)
	}
	return kind, ok, nil
}

func (o *ReleaseOrchestrator) updateManifests(
	ctx context.Context,
	next *domain.Version,
) ([]string, error) {
	uc := &usecase.UpdateManifestsUseCase{
		Manifests: o.manifestSvc,
		Primary:   o.cfg.PrimaryRef(),
		Secondary: o.cfg.SecondaryRef(),
	}
	return uc.Execute(ctx, next)
}

func (o *ReleaseOrchestrator) commitAndTag(
	ctx context.Context,
	next *domain.Version,
	tag string,
	files []string,
) error {
	if o.gitRepo == nil {
		return fmt.Errorf("tagging requires a git repository")
	}
	if err := o.gitRepo.ConfigureUser(ctx, o.cfg.GitUserName, o.cfg.GitUserEmail); err != nil {
		return fmt.Errorf("failed to configure git user: %w", err)
	}
	if err := o.gitRepo.AddFiles(ctx, files...); err != nil {
		return fmt.Errorf("failed to stage manifests: %w", err)
	}
	message := fmt.Sprintf(o.cfg.CommitTemplate, next.Bare())
	if err := o.gitRepo.Commit(ctx, message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	if err := o.gitRepo.CreateTag(ctx, tag); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (o *ReleaseOrchestrator) publishRelease(
	ctx context.Context,
	next *domain.Version,
	tag string,
) error {
	if o.githubRepo == nil {
		return fmt.Errorf("github_token is not configured")
	}
	name := fmt.Sprintf("Release %s", next.Bare())
	body := fmt.Sprintf("Automated release %s", tag)
	return retry.Do(
		ctx,
		retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay)),
		func(ctx context.Context) error {
			err := o.githubRepo.CreateRelease(ctx, tag, name, body)
			if err == nil {
				return nil
			}
			if isTransientGithubError(err) {
				return retry.RetryableError(err)
			}
			return err
		},
	)
}

// isTransientGithubError reports whether a GitHub API failure is worth
// retrying. Client errors such as 401 or 422 (release already exists)
// never heal on retry; server errors, rate limiting and transport
// failures can.
func isTransientGithubError(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response == nil {
			return true
		}
		code := ghErr.Response.StatusCode
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}
	// Errors without an API response are transport-level failures.
	return true
}

// printStatus prints a human-readable progress line.
func (o *ReleaseOrchestrator) printStatus(message string) {
	fmt.Println(message)
}
