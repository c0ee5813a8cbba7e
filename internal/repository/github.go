package repository

import "context"

// GithubRepository defines the interface for GitHub API operations.

type GithubRepository interface {
	// CreateRelease publishes a GitHub release for an already pushed tag.
	CreateRelease(ctx context.Context, tag, name, body string) error
}
