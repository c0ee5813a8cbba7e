package repository

import "context"

// GitRepository defines the interface for Git operations.

type GitRepository interface {
	// LatestTag returns the name of the most recent tag, or "" when the
	// repository has no tags yet.
	LatestTag(ctx context.Context) (string, error)
	// CommitMessagesSince returns the subject lines of every commit
	// strictly after the given tag up to HEAD. With an empty tag the
	// entire history is returned; an unborn HEAD yields an empty list.
	CommitMessagesSince(ctx context.Context, tag string) ([]string, error)
	ConfigureUser(ctx context.Context, name, email string) error
	AddFiles(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	CreateTag(ctx context.Context, tag string) error
	TagExists(ctx context.Context, tag string) (bool, error)
}
