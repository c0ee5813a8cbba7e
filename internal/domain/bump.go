package domain

import (
	"fmt"
	"strings"
)

// BumpKind is the increment granularity for a release.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
	// BumpSync is a CLI-only mode: synchronize manifests and stop
	// without incrementing anything.
	BumpSync BumpKind = "sync"
)

// ParseBumpKind parses a CLI argument into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(strings.TrimSpace(s)) {
	case BumpMajor:
		return BumpMajor, nil
	case BumpMinor:
		return BumpMinor, nil
	case BumpPatch:
		return BumpPatch, nil
	case BumpSync:
		return BumpSync, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBumpKind, s)
	}
}

// minorMarkers and patchMarkers are the conventional-commit prefixes
// that trigger a minor or patch release.
var (
	minorMarkers = []string{"feat:", "feat("}
	patchMarkers = []string{"fix:", "fix(", "perf:", "perf("}
)

// ClassifyCommits scans commit messages for conventional-commit markers
// and returns the bump kind they imply. Order of the messages is
// irrelevant. A "!" anywhere in any message signals a breaking change
// and takes precedence over minor and patch markers; with no markers
// present the second return value is false.
func ClassifyCommits(messages []string) (BumpKind, bool) {
	hasMinor := false
	hasPatch := false
	for _, msg := range messages {
		if strings.Contains(msg, "!") {
			return BumpMajor, true
		}
		if containsAny(msg, minorMarkers) {
			hasMinor = true
		}
		if containsAny(msg, patchMarkers) {
			hasPatch = true
		}
	}
	if hasMinor {
		return BumpMinor, true
	}
	if hasPatch {
		return BumpPatch, true
	}
	return "", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
