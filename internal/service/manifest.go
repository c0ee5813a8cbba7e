package service

import (
	"github.com/versync/versync/internal/domain"
)

// ManifestService defines the interface for reading and rewriting the
// version field embedded in manifest files.

type ManifestService interface {
	// ReadVersion locates the version field of the referenced manifest
	// and parses it. A missing file or a file without a matching field
	// yields a domain.NotFoundError.
	ReadVersion(ref domain.ManifestRef) (*domain.Version, error)
	// WriteVersion splices the new version into the field span located
	// by the reference pattern. All bytes outside the span are
	// preserved exactly.
	WriteVersion(ref domain.ManifestRef, v *domain.Version) error
}
