package tui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/run-stars/internal/statelock"
	"github.com/joeycumines/run-stars/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestNewRegistryMergesPresence(t *testing.T) {
	runtimeDir, persistentDir := t.TempDir(), t.TempDir()

	writeFile(t, runtimeDir, "%tmp%a")
	writeFile(t, persistentDir, "%tmp%a")
	writeFile(t, persistentDir, "%tmp%b")

	lock, ok, err := statelock.TryAcquire(filepath.Join(runtimeDir, "%tmp%a"))
	require.NoError(t, err)
	require.True(t, ok)
	defer lock.Close()

	reg, err := tui.NewRegistry(runtimeDir, persistentDir)
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	a, ok := reg.Get(0)
	require.True(t, ok)
	assert.Equal(t, "%tmp%a", a.FileName)
	assert.True(t, a.Runtime)
	assert.True(t, a.Persistent)
	assert.True(t, a.Running)

	b, ok := reg.Get(1)
	require.True(t, ok)
	assert.Equal(t, "%tmp%b", b.FileName)
	assert.False(t, b.Runtime)
	assert.True(t, b.Persistent)
}

func TestRegistryAddMergesFlags(t *testing.T) {
	reg, err := tui.NewRegistry(t.TempDir(), t.TempDir())
	require.NoError(t, err)

	reg.Add(tui.StateEntry{FileName: "x", Runtime: true, Running: true})
	reg.Add(tui.StateEntry{FileName: "x", Persistent: true})

	require.Equal(t, 1, reg.Len())
	e, _ := reg.Get(0)
	assert.True(t, e.Runtime)
	assert.True(t, e.Persistent)
	assert.True(t, e.Running)
}

func TestRegistryRemoveDeletesWhenBothFlagsClear(t *testing.T) {
	reg, err := tui.NewRegistry(t.TempDir(), t.TempDir())
	require.NoError(t, err)

	reg.Add(tui.StateEntry{FileName: "x", Runtime: true, Running: true})
	reg.Add(tui.StateEntry{FileName: "x", Persistent: true})

	stillExists, existed := reg.Remove(tui.StateEntry{FileName: "x", Runtime: true, Running: true})
	require.True(t, existed)
	assert.True(t, stillExists, "persistent flag still set; entry must survive")

	e, _ := reg.Get(0)
	assert.False(t, e.Runtime)
	assert.False(t, e.Running)
	assert.True(t, e.Persistent)

	stillExists, existed = reg.Remove(tui.StateEntry{FileName: "x", Persistent: true})
	require.True(t, existed)
	assert.False(t, stillExists)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryRemoveUnknownEntry(t *testing.T) {
	reg, err := tui.NewRegistry(t.TempDir(), t.TempDir())
	require.NoError(t, err)

	_, existed := reg.Remove(tui.StateEntry{FileName: "nope", Runtime: true})
	assert.False(t, existed)
}
