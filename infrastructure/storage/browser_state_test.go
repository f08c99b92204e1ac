package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserState_Lifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	state, err := NewBrowserState(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "state.json"), state.Path())
	assert.False(t, state.Exists())

	require.NoError(t, os.WriteFile(state.Path(), []byte(`{"cookies":[]}`), 0644))
	assert.True(t, state.Exists())

	data, err := state.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"cookies":[]}`, string(data))

	profile, err := state.ProfileDir()
	require.NoError(t, err)
	assert.DirExists(t, profile)

	require.NoError(t, state.Clear())
	assert.False(t, state.Exists())
	assert.NoDirExists(t, profile)

	// clearing twice is fine
	require.NoError(t, state.Clear())
}

func TestBrowserState_EmptyFileDoesNotCount(t *testing.T) {
	state, err := NewBrowserState(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(state.Path(), nil, 0644))
	assert.False(t, state.Exists())
}
