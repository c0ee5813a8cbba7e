package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/versync/versync/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// JournalSchemaVersion defines the current schema version for journal files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for journal files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// ReleaseStateRepository defines the interface for the release journal.
// The journal records the outcome of completed runs; it never drives
// rollback of manifest edits or tags.
type ReleaseStateRepository interface {
	Save(ctx context.Context, record *domain.ReleaseRecord) error
	Load(ctx context.Context, sessionID string) (*domain.ReleaseRecord, error)
	LoadLatest(ctx context.Context) (*domain.ReleaseRecord, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// RecordMetadata contains metadata about a journal entry
type RecordMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecordWrapper wraps a release record with metadata
type RecordWrapper struct {
	Metadata RecordMetadata        `json:"metadata"`
	Record   *domain.ReleaseRecord `json:"record"`
}

// JSONStateRepository implements ReleaseStateRepository using JSON files
type JSONStateRepository struct {
	fs       afero.Fs
	stateDir string
	mu       sync.RWMutex
}

// NewJSONStateRepository creates a new JSON-based release journal
func NewJSONStateRepository(fs afero.Fs, stateDir string) ReleaseStateRepository {
	if stateDir == "" {
		stateDir = ".versync-state"
	}
	return &JSONStateRepository{
		fs:       fs,
		stateDir: stateDir,
	}
}

// Save persists the release record to a JSON file with proper locking
func (r *JSONStateRepository) Save(ctx context.Context, record *domain.ReleaseRecord) error {
	if err := r.ensureStateDir(); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	filename := r.getRecordFilename(record.SessionID)
	lockFile := r.getLockFilename(record.SessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock file: %v\n", unlockErr)
		}
	}()
	wrapper := RecordWrapper{
		Metadata: RecordMetadata{
			SchemaVersion: JournalSchemaVersion,
			CreatedAt:     record.CreatedAt,
			UpdatedAt:     time.Now(),
		},
		Record: record,
	}
	recordData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for checksum: %w", err)
	}
	wrapper.Metadata.Checksum = r.calculateChecksum(recordData)
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record wrapper: %w", err)
	}
	// Write atomically using temp file
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp journal file: %w", err)
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename journal file: %w", err)
	}
	if err := r.updateLatestLink(filename); err != nil {
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

// Load retrieves a specific release record by session ID with validation
func (r *JSONStateRepository) Load(ctx context.Context, sessionID string) (*domain.ReleaseRecord, error) {
	filename := r.getRecordFilename(sessionID)
	lockFile := r.getLockFilename(sessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireSharedLockWithContext(lockCtx, lock)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire shared lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire shared lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock file: %v\n", unlockErr)
		}
	}()
	data, err := afero.ReadFile(r.fs, filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("record not found for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	var wrapper RecordWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record wrapper: %w", err)
	}
	if wrapper.Metadata.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, wrapper.Metadata.SchemaVersion)
	}
	recordData, err := json.Marshal(wrapper.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record for checksum validation: %w", err)
	}
	expectedChecksum := r.calculateChecksum(recordData)
	if wrapper.Metadata.Checksum != expectedChecksum {
		return nil, fmt.Errorf("record checksum mismatch: data may be corrupted")
	}
	return wrapper.Record, nil
}

// LoadLatest retrieves the most recent release record
func (r *JSONStateRepository) LoadLatest(ctx context.Context) (*domain.ReleaseRecord, error) {
	latestLink := r.getLatestLink()
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, latestLink)
	r.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no latest record found")
		}
		return nil, fmt.Errorf("failed to read latest link: %w", err)
	}
	targetFile := string(data)
	sessionID := r.extractSessionID(targetFile)
	if sessionID == "" {
		return nil, fmt.Errorf("invalid latest link target: %s", targetFile)
	}
	return r.Load(ctx, sessionID)
}

// Delete removes a release record
func (r *JSONStateRepository) Delete(ctx context.Context, sessionID string) error {
	filename := r.getRecordFilename(sessionID)
	lockFile := r.getLockFilename(sessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire lock for deletion: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock file: %v\n", unlockErr)
		}
	}()
	if err := r.fs.Remove(filename); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete journal file: %w", err)
	}
	if removeErr := r.fs.Remove(lockFile); removeErr != nil && !os.IsNotExist(removeErr) {
		fmt.Fprintf(os.Stderr, "warning: failed to remove lock file: %v\n", removeErr)
	}
	return nil
}

// Exists checks if a release record exists
func (r *JSONStateRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	filename := r.getRecordFilename(sessionID)
	_, err := r.fs.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check journal file: %w", err)
	}
	return true, nil
}

// acquireLockWithContext attempts to acquire an exclusive lock with context support
func (r *JSONStateRepository) acquireLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

// acquireSharedLockWithContext attempts to acquire a shared lock with context support
func (r *JSONStateRepository) acquireSharedLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryRLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

// calculateChecksum calculates SHA-256 checksum of data
func (r *JSONStateRepository) calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ensureStateDir creates the journal directory if it doesn't exist
func (r *JSONStateRepository) ensureStateDir() error {
	return r.fs.MkdirAll(r.stateDir, JournalDirPermissions)
}

// getRecordFilename returns the filename for a given session ID
func (r *JSONStateRepository) getRecordFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf("release-%s.json", sessionID))
}

// getLockFilename returns the lock filename for a given session ID
func (r *JSONStateRepository) getLockFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf(".release-%s.lock", sessionID))
}

// getLatestLink returns the path to the latest record link
func (r *JSONStateRepository) getLatestLink() string {
	return filepath.Join(r.stateDir, "latest.txt")
}

// extractSessionID extracts the session ID from a journal filename
func (r *JSONStateRepository) extractSessionID(filename string) string {
	base := filepath.Base(filename)
	const prefix, suffix = "release-", ".json"
	if len(base) <= len(prefix)+len(suffix) {
		return ""
	}
	if base[:len(prefix)] != prefix || filepath.Ext(base) != suffix {
		return ""
	}
	return base[len(prefix) : len(base)-len(suffix)]
}

// updateLatestLink updates the link pointing to the latest record
func (r *JSONStateRepository) updateLatestLink(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link := r.getLatestLink()
	tempLink := link + ".tmp"
	if err := afero.WriteFile(r.fs, tempLink, []byte(target), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp latest link: %w", err)
	}
	if err := r.fs.Rename(tempLink, link); err != nil {
		if removeErr := r.fs.Remove(tempLink); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp link: %v\n", removeErr)
		}
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}
