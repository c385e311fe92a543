package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeapDB/dbenv"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, dbenv.DefaultPoolBytes, cfg.PoolBytes)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	contents := "[heapdb]\nlog_level = debug\npool_size = 8388608\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(8388608), cfg.PoolBytes)
}

func TestLoadRejectsBadPoolSize(t *testing.T) {
	dir := t.TempDir()
	contents := "[heapdb]\npool_size = -1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}
