package runner

import (
	"context"
	"os/exec"
	"time"

	"github.com/joeycumines/run-stars/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// Schedule runs one child process per task, bounded to limit concurrent
// children (limit <= 0 means unbounded) via errgroup.Group.SetLimit,
// sending a Running delta when a child is spawned and a terminal delta
// (Success/Failure) once it exits. now is called for each delta's
// timestamp, kept as a parameter so tests can supply a fixed clock.
func Schedule(ctx context.Context, tasks []protocol.Task, limit int, w *Writer, now func() time.Time) {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			runOne(ctx, i, t, w, now)
			return nil
		})
	}

	_ = g.Wait()
}

// runOne spawns a single task's executable, reports its Running transition
// immediately on successful spawn, and its terminal transition once it
// exits or fails to spawn. A task that never starts (spawn failure) or
// that exits abnormally without a reportable exit code (killed by signal,
// or some other *exec.ExitError-less failure) is recorded as exit code 1.
func runOne(ctx context.Context, index int, t protocol.Task, w *Writer, now func() time.Time) {
	cmd := exec.CommandContext(ctx, t.Path)

	if err := cmd.Start(); err != nil {
		w.Send(index, protocol.Task{
			Status: protocol.StatusFailure,
			Code:   1,
			Time:   now(),
			Path:   t.Path,
		})
		return
	}

	w.Send(index, protocol.Task{
		Status: protocol.StatusRunning,
		Time:   now(),
		Path:   t.Path,
	})

	err := cmd.Wait()

	status := protocol.StatusSuccess
	var code uint8
	if err != nil {
		status = protocol.StatusFailure
		if exitErr, ok := err.(*exec.ExitError); ok {
			if ec := exitErr.ExitCode(); ec >= 0 && ec <= 255 {
				code = uint8(ec)
			} else {
				code = 1
			}
		} else {
			code = 1
		}
	}

	w.Send(index, protocol.Task{
		Status: status,
		Code:   code,
		Time:   now(),
		Path:   t.Path,
	})
}
