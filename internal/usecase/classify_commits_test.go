package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/versync/versync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommitsUseCase_Execute(t *testing.T) {
	t.Run("Should classify commits since the latest tag", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &ClassifyCommitsUseCase{GitRepo: gitRepo}
		ctx := context.Background()
		gitRepo.On("LatestTag", ctx).Return("v1.0.0", nil)
		gitRepo.On("CommitMessagesSince", ctx, "v1.0.0").
			Return([]string{"fix: correct offset", "docs: tweak"}, nil)
		kind, ok, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.BumpPatch, kind)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should classify full history when no tag exists", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &ClassifyCommitsUseCase{GitRepo: gitRepo}
		ctx := context.Background()
		gitRepo.On("LatestTag", ctx).Return("", nil)
		gitRepo.On("CommitMessagesSince", ctx, "").
			Return([]string{"feat: initial feature", "chore: scaffold"}, nil)
		kind, ok, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.BumpMinor, kind)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should prefer breaking change over feat", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &ClassifyCommitsUseCase{GitRepo: gitRepo}
		ctx := context.Background()
		gitRepo.On("LatestTag", ctx).Return("v2.1.0", nil)
		gitRepo.On("CommitMessagesSince", ctx, "v2.1.0").
			Return([]string{"feat: add thing", "feat!: drop old api"}, nil)
		kind, ok, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.BumpMajor, kind)
	})
	t.Run("Should report no bump for empty history", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &ClassifyCommitsUseCase{GitRepo: gitRepo}
		ctx := context.Background()
		gitRepo.On("LatestTag", ctx).Return("v1.0.0", nil)
		gitRepo.On("CommitMessagesSince", ctx, "v1.0.0").Return([]string(nil), nil)
		kind, ok, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, kind)
	})
	t.Run("Should propagate git errors", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &ClassifyCommitsUseCase{GitRepo: gitRepo}
		ctx := context.Background()
		expectedErr := errors.New("git error")
		gitRepo.On("LatestTag", ctx).Return("", expectedErr)
		_, _, err := uc.Execute(ctx)
		assert.ErrorContains(t, err, "failed to get latest tag")
	})
}
