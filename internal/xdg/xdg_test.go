package xdg_test

import (
	"path/filepath"
	"testing"

	"github.com/joeycumines/run-stars/internal/xdg"
	"github.com/stretchr/testify/assert"
)

func TestRuntimeDirHonorsEnv(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/tmp/xdg-runtime")
	assert.Equal(t, filepath.Join("/tmp/xdg-runtime", "run_stars"), xdg.RuntimeDir())
}

func TestStateDirHonorsEnv(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	assert.Equal(t, filepath.Join("/tmp/xdg-state", "run_stars"), xdg.StateDir())
}

func TestEnsureDirCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.NoError(t, xdg.EnsureDir(dir))

	// idempotent
	assert.NoError(t, xdg.EnsureDir(dir))
}
