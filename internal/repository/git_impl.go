package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo *git.Repository
}

// NewGitRepository opens the repository in the current working directory.
func NewGitRepository() (GitRepository, error) {
	repo, err := git.PlainOpen(".")
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo}, nil
}

// NewGitRepositoryAt opens the repository at the given path.
func NewGitRepositoryAt(path string) (GitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &gitRepository{repo: repo}, nil
}

// LatestTag returns the most recent tag by commit time, or "" when the
// repository has no tags. The no-tag case is expected state, not an error.
func (r *gitRepository) LatestTag(_ context.Context) (string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to get tags: %w", err)
	}
	var latestTag string
	var latestCommitTime time.Time
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		commit, err := r.resolveTagCommitObject(ref)
		if err != nil {
			return nil // Skip tags that don't point at a commit
		}
		if commit.Committer.When.After(latestCommitTime) {
			latestCommitTime = commit.Committer.When
			latestTag = ref.Name().Short()
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("failed to iterate tags: %w", err)
	}
	return latestTag, nil
}

// resolveTagCommitObject resolves a tag reference to its commit,
// handling both lightweight and annotated tags.
func (r *gitRepository) resolveTagCommitObject(ref *plumbing.Reference) (*object.Commit, error) {
	if commit, err := r.repo.CommitObject(ref.Hash()); err == nil {
		return commit, nil
	}
	tagObj, err := r.repo.TagObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %s: %w", ref.Name().Short(), err)
	}
	commit, err := r.repo.CommitObject(tagObj.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag target %s: %w", ref.Name().Short(), err)
	}
	return commit, nil
}

// CommitMessagesSince walks HEAD backwards collecting commit subjects
// until the tag commit is reached. An empty tag means full history.
func (r *gitRepository) CommitMessagesSince(_ context.Context, tag string) ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil // Unborn HEAD: empty history
		}
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	var stopHash plumbing.Hash
	if tag != "" {
		tagRef, err := r.repo.Tag(tag)
		if err != nil {
			return nil, fmt.Errorf("failed to get tag %s: %w", tag, err)
		}
		commit, err := r.resolveTagCommitObject(tagRef)
		if err != nil {
			return nil, err
		}
		stopHash = commit.Hash
	}
	commits, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}
	var messages []string
	err = commits.ForEach(func(c *object.Commit) error {
		if tag != "" && c.Hash == stopHash {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		messages = append(messages, subject)
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return messages, nil
}

// ConfigureUser sets the git user configuration.
func (r *gitRepository) ConfigureUser(_ context.Context, name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	cfg.User.Name = name
	cfg.User.Email = email
	return r.repo.Storer.SetConfig(cfg)
}

// AddFiles stages the given paths.
func (r *gitRepository) AddFiles(_ context.Context, paths ...string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, path := range paths {
		if _, err := w.Add(path); err != nil {
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *gitRepository) Commit(_ context.Context, message string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	_, err = w.Commit(message, &git.CommitOptions{})
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	if _, err := r.repo.CreateTag(tag, head.Hash(), nil); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
}
