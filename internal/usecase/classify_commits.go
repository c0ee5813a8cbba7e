package usecase

import (
	"context"
	"fmt"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/repository"
)

// ClassifyCommitsUseCase determines the bump kind from the commit
// history since the last tag.

type ClassifyCommitsUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case. With no tag in the repository the whole
// history is classified; the second return value is false when the
// history carries no release-worthy marker.
func (uc *ClassifyCommitsUseCase) Execute(ctx context.Context) (domain.BumpKind, bool, error) {
	latestTag, err := uc.GitRepo.LatestTag(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to get latest tag: %w", err)
	}
	messages, err := uc.GitRepo.CommitMessagesSince(ctx, latestTag)
	if err != nil {
		return "", false, fmt.Errorf("failed to get commits since tag %q: %w", latestTag, err)
	}
	kind, ok := domain.ClassifyCommits(messages)
	return kind, ok, nil
}
