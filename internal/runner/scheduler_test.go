package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/runner"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestScheduleSuccessAndFailure(t *testing.T) {
	dir := t.TempDir()
	okPath := writeScript(t, dir, "ok", "exit 0")
	failPath := writeScript(t, dir, "fail", "exit 7")

	tasks := []protocol.Task{
		protocol.NewWaiting(okPath, time.Now()),
		protocol.NewWaiting(failPath, time.Now()),
	}

	path := filepath.Join(t.TempDir(), "runtime")
	w := runner.NewWriter(path, tasks, nil)
	runner.Schedule(context.Background(), tasks, 0, w, time.Now)
	final, err := w.Close()
	require.NoError(t, err)
	require.Len(t, final, 2)

	byPath := map[string]protocol.Task{}
	for _, task := range final {
		byPath[task.Path] = task
	}
	require.Equal(t, protocol.StatusSuccess, byPath[okPath].Status)
	require.EqualValues(t, 0, byPath[okPath].Code)
	require.Equal(t, protocol.StatusFailure, byPath[failPath].Status)
	require.EqualValues(t, 7, byPath[failPath].Code)
}

func TestScheduleSpawnFailureEmitsOnlyOneDelta(t *testing.T) {
	dir := t.TempDir()
	deniedPath := filepath.Join(dir, "denied")
	require.NoError(t, os.WriteFile(deniedPath, []byte("not executable"), 0o644))

	tasks := []protocol.Task{protocol.NewWaiting(deniedPath, time.Now())}
	path := filepath.Join(t.TempDir(), "runtime")
	w := runner.NewWriter(path, tasks, nil)
	runner.Schedule(context.Background(), tasks, 0, w, time.Now)
	final, err := w.Close()
	require.NoError(t, err)
	require.Len(t, final, 1)
	require.Equal(t, protocol.StatusFailure, final[0].Status)
	require.EqualValues(t, 1, final[0].Code)
}

func TestScheduleRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	var tasks []protocol.Task
	for i := 0; i < 5; i++ {
		p := writeScript(t, dir, "t"+string(rune('a'+i)), "sleep 0.05")
		tasks = append(tasks, protocol.NewWaiting(p, time.Now()))
	}

	path := filepath.Join(t.TempDir(), "runtime")
	w := runner.NewWriter(path, tasks, nil)

	start := time.Now()
	runner.Schedule(context.Background(), tasks, 1, w, time.Now)
	elapsed := time.Since(start)
	_, err := w.Close()
	require.NoError(t, err)

	require.GreaterOrEqual(t, elapsed, 200*time.Millisecond, "limit=1 should serialise the five 50ms sleeps")
}
