package usecase

import (
	"context"
	"fmt"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/service"
)

// UpdateManifestsUseCase rewrites the version field of both manifests.
// The two writes are independent: a failure on the secondary leaves the
// primary already rewritten.

type UpdateManifestsUseCase struct {
	Manifests service.ManifestService
	Primary   domain.ManifestRef
	Secondary domain.ManifestRef
}

// Execute writes the new version into both manifests and returns the
// paths that were rewritten.
func (uc *UpdateManifestsUseCase) Execute(_ context.Context, v *domain.Version) ([]string, error) {
	if err := uc.Manifests.WriteVersion(uc.Primary, v); err != nil {
		return nil, fmt.Errorf("failed to update primary manifest: %w", err)
	}
	if err := uc.Manifests.WriteVersion(uc.Secondary, v); err != nil {
		return []string{uc.Primary.Path}, fmt.Errorf("failed to update secondary manifest: %w", err)
	}
	return []string{uc.Primary.Path, uc.Secondary.Path}, nil
}
