package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) LatestTag(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) CommitMessagesSince(ctx context.Context, tag string) ([]string, error) {
	args := m.Called(ctx, tag)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGitRepository) ConfigureUser(ctx context.Context, name, email string) error {
	args := m.Called(ctx, name, email)
	return args.Error(0)
}

func (m *mockGitRepository) AddFiles(ctx context.Context, paths ...string) error {
	callArgs := []any{ctx}
	for _, p := range paths {
		callArgs = append(callArgs, p)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *mockGitRepository) Commit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}
