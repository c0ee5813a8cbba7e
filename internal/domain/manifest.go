package domain

import (
	"fmt"
	"regexp"
)

// ManifestStyle names the surrounding syntax of an embedded version field.
type ManifestStyle string

const (
	// StyleConstant matches assignment of a quoted version string to a
	// named constant, e.g. `Version = "1.2.3"` or `__version__ = '1.2.3'`.
	StyleConstant ManifestStyle = "constant"
	// StyleKwarg matches a keyword-argument style assignment with a
	// double-quoted version string, e.g. `version = "1.2.3"` or
	// `version="1.2.3",` in a call site. A trailing comma sits outside
	// the matched span and is preserved.
	StyleKwarg ManifestStyle = "kwarg"
)

// semverPattern matches a bare semantic version with optional
// prerelease and build metadata.
const semverPattern = `\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`

// ManifestRef identifies a version field inside a manifest file: the
// file path, the key the version is assigned to, and the assignment
// style. The same compiled pattern serves both reads and writes so a
// field that can be read can always be rewritten.
type ManifestRef struct {
	Path  string
	Key   string
	Style ManifestStyle
}

// Pattern compiles the field-locating expression for the reference.
// Submatch 2 is the version itself; everything else in the file is
// outside the match.
func (r ManifestRef) Pattern() (*regexp.Regexp, error) {
	key := regexp.QuoteMeta(r.Key)
	switch r.Style {
	case StyleConstant:
		return regexp.Compile(`(` + key + `\s*=\s*["'])(` + semverPattern + `)(["'])`)
	case StyleKwarg:
		return regexp.Compile(`(` + key + `\s*=\s*")(` + semverPattern + `)(")`)
	default:
		return nil, fmt.Errorf("unknown manifest style: %q", r.Style)
	}
}
