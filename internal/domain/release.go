package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseRecord captures the outcome of one release run for the local
// state journal.
type ReleaseRecord struct {
	SessionID    string    `json:"session_id"`
	BumpKind     BumpKind  `json:"bump_kind"`
	OldVersion   string    `json:"old_version"`
	NewVersion   string    `json:"new_version"`
	TagName      string    `json:"tag_name"`
	FilesWritten []string  `json:"files_written"`
	Synced       bool      `json:"synced"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReleaseRecord creates a record with a fresh session ID.
func NewReleaseRecord(kind BumpKind, oldVersion, newVersion, tag string) *ReleaseRecord {
	return &ReleaseRecord{
		SessionID:  uuid.New().String(),
		BumpKind:   kind,
		OldVersion: oldVersion,
		NewVersion: newVersion,
		TagName:    tag,
		CreatedAt:  time.Now(),
	}
}
