package runner_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/runner"
	"github.com/stretchr/testify/require"
)

func TestBuildTasksSortsAscendingByPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}

	tasks, err := runner.BuildTasks(dir, false, time.Now())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, filepath.Join(dir, "a"), tasks[0].Path)
	require.Equal(t, filepath.Join(dir, "b"), tasks[1].Path)
	require.Equal(t, filepath.Join(dir, "c"), tasks[2].Path)
	for _, task := range tasks {
		require.Equal(t, protocol.StatusWaiting, task.Status)
	}
}

func TestBuildTasksReverse(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}

	tasks, err := runner.BuildTasks(dir, true, time.Now())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, filepath.Join(dir, "b"), tasks[0].Path)
	require.Equal(t, filepath.Join(dir, "a"), tasks[1].Path)
}

func TestBuildTasksSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte{}, 0o644))

	tasks, err := runner.BuildTasks(dir, false, time.Now())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, filepath.Join(dir, "file"), tasks[0].Path)
}
