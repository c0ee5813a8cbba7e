package orchestrator

import (
	"context"

	"github.com/versync/versync/internal/domain"
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

// Mock for GithubRepository
type mockGithubRepository struct{ mock.Mock }

func (m *mockGithubRepository) CreateRelease(ctx context.Context, tag, name, body string) error {
	args := m.Called(ctx, tag, name, body)
	return args.Error(0)
}

// Mock for ReleaseStateRepository
type mockStateRepository struct{ mock.Mock }

func (m *mockStateRepository) Save(ctx context.Context, record *domain.ReleaseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockStateRepository) Load(ctx context.Context, sessionID string) (*domain.ReleaseRecord, error) {
	args := m.Called(ctx, sessionID)
	if record := args.Get(0); record != nil {
		return record.(*domain.ReleaseRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStateRepository) LoadLatest(ctx context.Context) (*domain.ReleaseRecord, error) {
	args := m.Called(ctx)
	if record := args.Get(0); record != nil {
		return record.(*domain.ReleaseRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStateRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockStateRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
