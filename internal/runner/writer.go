package runner

import (
	"os"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/rserr"
)

// delta is one task transition: the task's index in the fixed task slice,
// and its updated state.
type delta struct {
	index int
	task  protocol.Task
}

// Writer owns the runtime state file and serialises every delta from the
// scheduler into it. Its loop is adapted from microbatch.Batcher.run's
// jobCh/flushCh select: a single blocking receive followed by a non-blocking
// drain of whatever else has queued up, so a burst of same-tick deltas
// collapses into one rewrite instead of one write per delta. Unlike
// microbatch.Batcher[Job], a Writer has exactly one consumer and deltas
// overwrite by index rather than accumulating into a list, so the generic
// Batcher type doesn't fit and this loop is hand-rolled instead.
type Writer struct {
	path    string
	tasks   []protocol.Task
	deltaCh chan delta
	doneCh  chan error
	onError func(error)
}

// NewWriter starts a Writer for the given runtime path, owning a private copy
// of initial (the caller must not mutate it afterwards). onError, if
// non-nil, is called for every rewrite failure; per §4.4 such failures are
// logged but never abort the batch. The one exception is a rewrite made
// after the loop sees the channel closed in the middle of a drain: its
// error is returned from Close instead.
func NewWriter(path string, initial []protocol.Task, onError func(error)) *Writer {
	w := &Writer{
		path:    path,
		tasks:   append([]protocol.Task(nil), initial...),
		deltaCh: make(chan delta),
		doneCh:  make(chan error, 1),
		onError: onError,
	}
	go w.run()
	return w
}

// Send applies a delta for tasks[index]. It blocks until the writer's loop
// has accepted it into its pending batch.
func (w *Writer) Send(index int, task protocol.Task) {
	w.deltaCh <- delta{index: index, task: task}
}

// Close signals no further deltas will be sent, waits for the writer's loop
// to finish, and returns the fully up to date task slice. The error is
// non-nil only when the loop saw the close mid-drain and the rewrite it then
// made failed; a failure of a rewrite made before the close was seen has
// already gone to onError, and Close then returns nil.
func (w *Writer) Close() ([]protocol.Task, error) {
	close(w.deltaCh)
	err := <-w.doneCh
	return w.tasks, err
}

func (w *Writer) run() {
	defer close(w.doneCh)

	for {
		d, ok := <-w.deltaCh
		if !ok {
			return
		}
		w.tasks[d.index] = d.task

	drain:
		for {
			select {
			case d, ok := <-w.deltaCh:
				if !ok {
					w.doneCh <- w.rewrite()
					return
				}
				w.tasks[d.index] = d.task
			default:
				break drain
			}
		}

		if err := w.rewrite(); err != nil && w.onError != nil {
			w.onError(err)
		}
	}
}

// rewrite truncates and rewrites the runtime file in full, matching the
// rewrite-is-truncate-then-write semantics documented for the runtime file.
// An empty path is a null sink (used when the runtime lock couldn't be
// acquired): the batch still runs, but there is nowhere to stream progress.
func (w *Writer) rewrite() error {
	if w.path == "" {
		return nil
	}

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return rserr.New(rserr.KindMutation, "write runtime file", w.path, err)
	}
	defer f.Close()

	if _, err := f.Write(protocol.Encode(w.tasks)); err != nil {
		return rserr.New(rserr.KindMutation, "write runtime file", w.path, err)
	}
	return nil
}
