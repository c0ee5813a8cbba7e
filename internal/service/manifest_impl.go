package service

import (
	"fmt"
	"os"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/repository"
	"github.com/spf13/afero"
)

// FilePermissionsReadWrite is the permission for rewritten manifests.
const FilePermissionsReadWrite = 0644

// manifestService is the implementation of the ManifestService interface.
type manifestService struct {
	fs repository.FileSystemRepository
}

// NewManifestService creates a new ManifestService on top of the given
// filesystem.
func NewManifestService(fs repository.FileSystemRepository) ManifestService {
	return &manifestService{fs: fs}
}

// locateField returns the file content and the byte span of the version
// submatch for the first pattern match.
func (s *manifestService) locateField(ref domain.ManifestRef) ([]byte, int, int, error) {
	pattern, err := ref.Pattern()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid manifest reference for %s: %w", ref.Path, err)
	}
	data, err := afero.ReadFile(s.fs, ref.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, 0, &domain.NotFoundError{Path: ref.Path, Key: ref.Key}
		}
		return nil, 0, 0, fmt.Errorf("failed to read manifest %s: %w", ref.Path, err)
	}
	// First match only; submatch 2 is the version itself.
	loc := pattern.FindSubmatchIndex(data)
	if loc == nil {
		return nil, 0, 0, &domain.NotFoundError{Path: ref.Path, Key: ref.Key}
	}
	return data, loc[4], loc[5], nil
}

// ReadVersion locates and parses the embedded version string.
func (s *manifestService) ReadVersion(ref domain.ManifestRef) (*domain.Version, error) {
	data, start, end, err := s.locateField(ref)
	if err != nil {
		return nil, err
	}
	version, err := domain.NewVersion(string(data[start:end]))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q in %s: %w", data[start:end], ref.Path, err)
	}
	return version, nil
}

// WriteVersion splices the bare version string into the located span and
// writes the whole file back.
func (s *manifestService) WriteVersion(ref domain.ManifestRef, v *domain.Version) error {
	data, start, end, err := s.locateField(ref)
	if err != nil {
		return err
	}
	replacement := []byte(v.Bare())
	out := make([]byte, 0, len(data)-(end-start)+len(replacement))
	out = append(out, data[:start]...)
	out = append(out, replacement...)
	out = append(out, data[end:]...)
	if err := afero.WriteFile(s.fs, ref.Path, out, FilePermissionsReadWrite); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", ref.Path, err)
	}
	return nil
}
