package service

import (
	"testing"

	"github.com/versync/versync/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goManifest = `package widget

// Version is the current release of widget.
const Version = "1.2.3"

// Name is the canonical module name.
const Name = "widget"
`

const pyprojectManifest = `[project]
name = "widget"
version = "1.2.0"
description = "A sample project"
`

const setupManifest = `setup(
    name="widget",
    version="1.2.0",
    packages=find_packages(),
)
`

func newTestService(t *testing.T) (ManifestService, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "version.go", []byte(goManifest), 0644))
	require.NoError(t, afero.WriteFile(fs, "pyproject.toml", []byte(pyprojectManifest), 0644))
	require.NoError(t, afero.WriteFile(fs, "setup.py", []byte(setupManifest), 0644))
	return NewManifestService(fs), fs
}

func TestManifestService_ReadVersion(t *testing.T) {
	svc, _ := newTestService(t)
	t.Run("Should read constant-style version", func(t *testing.T) {
		v, err := svc.ReadVersion(domain.ManifestRef{
			Path: "version.go", Key: "Version", Style: domain.StyleConstant,
		})
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", v.Bare())
	})
	t.Run("Should read kwarg-style version", func(t *testing.T) {
		v, err := svc.ReadVersion(domain.ManifestRef{
			Path: "pyproject.toml", Key: "version", Style: domain.StyleKwarg,
		})
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", v.Bare())
	})
	t.Run("Should read kwarg-style version with trailing comma", func(t *testing.T) {
		v, err := svc.ReadVersion(domain.ManifestRef{
			Path: "setup.py", Key: "version", Style: domain.StyleKwarg,
		})
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", v.Bare())
	})
	t.Run("Should return NotFoundError when key is absent", func(t *testing.T) {
		_, err := svc.ReadVersion(domain.ManifestRef{
			Path: "version.go", Key: "Revision", Style: domain.StyleConstant,
		})
		assert.True(t, domain.IsNotFound(err))
	})
	t.Run("Should return NotFoundError when file is missing", func(t *testing.T) {
		_, err := svc.ReadVersion(domain.ManifestRef{
			Path: "missing.go", Key: "Version", Style: domain.StyleConstant,
		})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestManifestService_WriteVersion(t *testing.T) {
	t.Run("Should replace only the version substring", func(t *testing.T) {
		svc, fs := newTestService(t)
		next, err := domain.NewVersion("1.2.4")
		require.NoError(t, err)
		ref := domain.ManifestRef{Path: "version.go", Key: "Version", Style: domain.StyleConstant}
		require.NoError(t, svc.WriteVersion(ref, next))
		data, err := afero.ReadFile(fs, "version.go")
		require.NoError(t, err)
		want := `package widget

// Version is the current release of widget.
const Version = "1.2.4"

// Name is the canonical module name.
const Name = "widget"
`
		assert.Equal(t, want, string(data))
	})
	t.Run("Should preserve trailing comma in kwarg style", func(t *testing.T) {
		svc, fs := newTestService(t)
		next, err := domain.NewVersion("2.0.0")
		require.NoError(t, err)
		ref := domain.ManifestRef{Path: "setup.py", Key: "version", Style: domain.StyleKwarg}
		require.NoError(t, svc.WriteVersion(ref, next))
		data, err := afero.ReadFile(fs, "setup.py")
		require.NoError(t, err)
		want := `setup(
    name="widget",
    version="2.0.0",
    packages=find_packages(),
)
`
		assert.Equal(t, want, string(data))
	})
	t.Run("Should round-trip through the same pattern", func(t *testing.T) {
		svc, _ := newTestService(t)
		ref := domain.ManifestRef{Path: "pyproject.toml", Key: "version", Style: domain.StyleKwarg}
		next, err := domain.NewVersion("3.1.4")
		require.NoError(t, err)
		require.NoError(t, svc.WriteVersion(ref, next))
		got, err := svc.ReadVersion(ref)
		require.NoError(t, err)
		assert.Equal(t, "3.1.4", got.Bare())
	})
	t.Run("Should return NotFoundError when field is absent", func(t *testing.T) {
		svc, _ := newTestService(t)
		next, err := domain.NewVersion("1.0.0")
		require.NoError(t, err)
		err = svc.WriteVersion(domain.ManifestRef{
			Path: "version.go", Key: "Revision", Style: domain.StyleConstant,
		}, next)
		assert.True(t, domain.IsNotFound(err))
	})
}
