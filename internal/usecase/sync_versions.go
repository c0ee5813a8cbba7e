package usecase

import (
	"context"
	"fmt"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/service"
	"go.uber.org/zap"
)

// SyncVersionsUseCase mirrors the primary manifest version into the
// secondary manifest.

type SyncVersionsUseCase struct {
	Manifests service.ManifestService
	Primary   domain.ManifestRef
	Secondary domain.ManifestRef
	// DryRun reports a version mismatch without rewriting the
	// secondary manifest.
	DryRun bool
	Log    *zap.SugaredLogger
}

// SyncResult reports the outcome of one synchronization pass.
type SyncResult struct {
	// Version is the primary manifest version, the source of truth.
	Version *domain.Version
	// Changed is true when the secondary manifest was rewritten.
	Changed bool
	// Pending is true when the secondary manifest differs but the
	// rewrite was withheld (dry run).
	Pending bool
	// SecondarySkipped is true when the secondary manifest could not be
	// parsed and the sync was skipped with a warning.
	SecondarySkipped bool
}

// Execute runs the use case. An unparseable secondary manifest is the
// one tolerated partial failure: it downgrades to a warning. A missing
// primary version is fatal.
func (uc *SyncVersionsUseCase) Execute(_ context.Context) (*SyncResult, error) {
	primary, err := uc.Manifests.ReadVersion(uc.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to read primary manifest: %w", err)
	}
	secondary, err := uc.Manifests.ReadVersion(uc.Secondary)
	if err != nil {
		if domain.IsNotFound(err) {
			uc.Log.Warnw("secondary manifest has no version field, skipping sync",
				"path", uc.Secondary.Path, "error", err)
			return &SyncResult{Version: primary, SecondarySkipped: true}, nil
		}
		return nil, fmt.Errorf("failed to read secondary manifest: %w", err)
	}
	if primary.Compare(secondary) == 0 {
		return &SyncResult{Version: primary}, nil
	}
	if uc.DryRun {
		return &SyncResult{Version: primary, Pending: true}, nil
	}
	if err := uc.Manifests.WriteVersion(uc.Secondary, primary); err != nil {
		return nil, fmt.Errorf("failed to sync secondary manifest: %w", err)
	}
	return &SyncResult{Version: primary, Changed: true}, nil
}
