package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidBumpKind is returned when a bump kind is neither major,
// minor, patch nor sync.
var ErrInvalidBumpKind = errors.New("invalid bump kind")

// NotFoundError reports that a manifest does not contain a matchable
// version field. It is fatal for the primary manifest and downgraded to
// a warning for the secondary manifest during sync.
type NotFoundError struct {
	Path string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no version field %q found in %s", e.Key, e.Path)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
