package usecase

import (
	"context"
	"testing"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	primaryRef   = domain.ManifestRef{Path: "version.go", Key: "Version", Style: domain.StyleConstant}
	secondaryRef = domain.ManifestRef{Path: "pyproject.toml", Key: "version", Style: domain.StyleKwarg}
)

func newSyncFixture(t *testing.T, primary, secondary string) (*SyncVersionsUseCase, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if primary != "" {
		content := `package widget

const Version = "` + primary + `"
`
		require.NoError(t, afero.WriteFile(fs, "version.go", []byte(content), 0644))
	}
	if secondary != "" {
		content := `[project]
name = "widget"
version = "` + secondary + `"
`
		require.NoError(t, afero.WriteFile(fs, "pyproject.toml", []byte(content), 0644))
	}
	uc := &SyncVersionsUseCase{
		Manifests: service.NewManifestService(fs),
		Primary:   primaryRef,
		Secondary: secondaryRef,
		Log:       zap.NewNop().Sugar(),
	}
	return uc, fs
}

func TestSyncVersionsUseCase_Execute(t *testing.T) {
	t.Run("Should overwrite secondary on mismatch", func(t *testing.T) {
		uc, fs := newSyncFixture(t, "1.2.3", "1.2.0")
		result, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, "1.2.3", result.Version.Bare())
		data, err := afero.ReadFile(fs, "pyproject.toml")
		require.NoError(t, err)
		assert.Contains(t, string(data), `version = "1.2.3"`)
	})
	t.Run("Should be idempotent", func(t *testing.T) {
		uc, _ := newSyncFixture(t, "1.2.3", "1.2.0")
		first, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, first.Changed)
		second, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.False(t, second.Changed)
	})
	t.Run("Should report a pending sync without writing in dry run", func(t *testing.T) {
		uc, fs := newSyncFixture(t, "1.2.3", "1.2.0")
		uc.DryRun = true
		result, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Pending)
		assert.False(t, result.Changed)
		data, err := afero.ReadFile(fs, "pyproject.toml")
		require.NoError(t, err)
		assert.Contains(t, string(data), `version = "1.2.0"`)
	})
	t.Run("Should report no change when versions already match", func(t *testing.T) {
		uc, _ := newSyncFixture(t, "1.2.3", "1.2.3")
		result, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.False(t, result.SecondarySkipped)
	})
	t.Run("Should warn and skip when secondary manifest is missing", func(t *testing.T) {
		uc, _ := newSyncFixture(t, "1.2.3", "")
		result, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, result.SecondarySkipped)
		assert.False(t, result.Changed)
		assert.Equal(t, "1.2.3", result.Version.Bare())
	})
	t.Run("Should fail when primary manifest is missing", func(t *testing.T) {
		uc, _ := newSyncFixture(t, "", "1.2.0")
		result, err := uc.Execute(context.Background())
		assert.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Nil(t, result)
	})
}
