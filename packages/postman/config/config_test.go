package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigTriStateDefaults(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.GetFollowRedirects())
	assert.False(t, c.GetParallel())
	assert.False(t, c.GetBail())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hitcall.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parallel": true, "concurrency": 4}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.GetParallel())
	assert.Equal(t, 4, c.Concurrency)
	assert.True(t, c.GetFollowRedirects(), "unset followRedirects should still default true")
}

func TestFindAndLoadFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, c.MaxRedirects)
}

func TestMergeOverridesExplicitFieldsOnly(t *testing.T) {
	base := DefaultConfig()
	base.Concurrency = 2
	other := &Config{Bail: BoolPtr(true)}

	merged := base.Merge(other)
	assert.True(t, merged.GetBail())
	assert.Equal(t, 2, merged.Concurrency, "unset fields in other must not override base")
}
