// Package runner implements the batch executor: resolving a target
// directory, building its task set, spawning one child process per task
// under a concurrency limit, and serialising live progress to the runtime
// state file before committing the final result to the persistent state
// file.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/rserr"
	"github.com/joeycumines/run-stars/internal/statelock"
)

// Options configures a single Run invocation, mirroring the runner CLI
// surface.
type Options struct {
	Dir     string
	List    bool
	Limit   int
	Reverse bool
}

// Result reports the outcome of a completed (or list-only) run.
type Result struct {
	Tasks []protocol.Task
	// Listed is true when Options.List short-circuited the run before any
	// task was scheduled.
	Listed bool
}

// Failed reports whether any task in the result ended in Failure.
func (r Result) Failed() bool {
	for _, t := range r.Tasks {
		if t.Status == protocol.StatusFailure {
			return true
		}
	}
	return false
}

// Run resolves dir, builds its task set, and — unless Options.List is set —
// executes it end to end: acquire the runtime lock, spawn children under the
// configured concurrency limit, stream progress to the runtime file, then
// commit the final state to the persistent file and remove the runtime
// file. onWriteError receives every non-fatal runtime-file write failure
// (§4.4); it may be nil.
func Run(ctx context.Context, opts Options, onWriteError func(error)) (Result, error) {
	target, err := ResolveTarget(opts.Dir)
	if err != nil {
		return Result{}, err
	}

	tasks, err := BuildTasks(target.AbsPath, opts.Reverse, time.Now())
	if err != nil {
		return Result{}, err
	}

	if opts.List {
		return Result{Tasks: tasks, Listed: true}, nil
	}

	runtimePath := target.RuntimePath()

	lock, ok, lockErr := statelock.TryAcquire(runtimePath)
	switch {
	case lockErr != nil:
		// Degrade to a null sink: the batch still runs and the persistent
		// file still gets written, but live progress isn't observable via
		// the runtime file while this failure persists.
		if onWriteError != nil {
			onWriteError(rserr.New(rserr.KindLocking, "set lock", runtimePath, lockErr))
		}
		runtimePath = ""
	case !ok:
		return Result{}, rserr.New(rserr.KindLocking, "set lock", runtimePath, fmt.Errorf("another run is already in progress for this target"))
	default:
		defer lock.Close()
	}

	w := NewWriter(runtimePath, tasks, onWriteError)

	Schedule(ctx, tasks, opts.Limit, w, time.Now)

	finalTasks, err := w.Close()
	if err != nil && onWriteError != nil {
		onWriteError(err)
	}

	if err := writePersistent(target.PersistentPath(), finalTasks); err != nil {
		return Result{Tasks: finalTasks}, err
	}

	if runtimePath != "" {
		if err := os.Remove(runtimePath); err != nil && !os.IsNotExist(err) {
			return Result{Tasks: finalTasks}, rserr.New(rserr.KindMutation, "remove runtime file", runtimePath, err)
		}
	}

	return Result{Tasks: finalTasks}, nil
}

// writePersistent commits the final task list to the persistent state file,
// syncing to disk before returning.
func writePersistent(path string, tasks []protocol.Task) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return rserr.New(rserr.KindMutation, "create persistent file", path, err)
	}
	defer f.Close()

	if _, err := f.Write(protocol.Encode(tasks)); err != nil {
		return rserr.New(rserr.KindMutation, "write persistent file", path, err)
	}
	if err := f.Sync(); err != nil {
		return rserr.New(rserr.KindMutation, "sync persistent file", path, err)
	}
	return nil
}

// WriteListing renders a --list result the way the runner CLI prints it: one
// path per line, in the order BuildTasks produced (already reversed if
// requested).
func WriteListing(w io.Writer, tasks []protocol.Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, t.Path); err != nil {
			return err
		}
	}
	return nil
}
