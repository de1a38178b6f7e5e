package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-forensics/hfsrecover/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load(types.RecoveryConfig{})
	require.NoError(t, err)
	assert.EqualValues(t, 512, cfg.SectorSize)
	assert.EqualValues(t, 4096, cfg.BlockSize)
	assert.False(t, cfg.Permissive)
}

func TestLoadFlagOverridesWinOverFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "block_size: 2048\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hfsrecover.yaml"), []byte(yaml), 0644))

	t.Setenv("HFSR_BLOCK_SIZE", "4096")

	cfg, err := Load(types.RecoveryConfig{BlockSize: 8192})
	require.NoError(t, err)
	assert.EqualValues(t, 8192, cfg.BlockSize)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "block_size: 2048\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hfsrecover.yaml"), []byte(yaml), 0644))

	t.Setenv("HFSR_BLOCK_SIZE", "4096")

	cfg, err := Load(types.RecoveryConfig{})
	require.NoError(t, err)
	assert.EqualValues(t, 4096, cfg.BlockSize)
}

func TestLoadFileWinsOverDefault(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "block_size: 2048\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hfsrecover.yaml"), []byte(yaml), 0644))

	cfg, err := Load(types.RecoveryConfig{})
	require.NoError(t, err)
	assert.EqualValues(t, 2048, cfg.BlockSize)
}

func TestLoadDedupOverride(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load(types.RecoveryConfig{Dedup: true, Permissive: true})
	require.NoError(t, err)
	assert.True(t, cfg.Dedup)
	assert.True(t, cfg.Permissive)
}
