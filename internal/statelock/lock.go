// Package statelock wraps the advisory file lock used to guarantee exactly
// one runner per target and to let the TUI observe whether a runtime file
// is currently held. It uses github.com/gofrs/flock (the same advisory
// locking library a gvisor sandbox runtime elsewhere in this module
// family wires for its runtime files), which falls back to an exclusive
// open-with-create pattern on platforms without POSIX record locks,
// matching the fallback §9 calls for.
package statelock

import (
	"os"

	"github.com/gofrs/flock"
)

// Lock is an acquired, held exclusive advisory lock on a single file. The
// file stays open and locked until Close is called.
type Lock struct {
	f *flock.Flock
}

// TryAcquire opens (creating if necessary) path and attempts to take a
// non-blocking exclusive advisory lock on it. ok is false if the file is
// already locked by another process; err is non-nil only for a genuine I/O
// failure.
func TryAcquire(path string) (lock *Lock, ok bool, err error) {
	f := flock.New(path)
	locked, err := f.TryLock()
	if err != nil {
		return nil, false, err
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{f: f}, true, nil
}

// Close releases the lock and closes the underlying file descriptor.
func (l *Lock) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}

// Probe reports whether path is currently held under an exclusive advisory
// lock by some other process, without blocking and without disturbing an
// existing lock. notFound is true if path does not exist, matching the
// "not found" observer behaviour of §4.5 (callers treat this as the entry
// having disappeared).
func Probe(path string) (locked bool, notFound bool, err error) {
	// flock.Flock opens its target with O_CREATE, which would fabricate a
	// runtime file that doesn't exist; stat first so a vanished entry is
	// reported as such instead.
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return false, true, nil
		}
		return false, false, statErr
	}

	f := flock.New(path)

	got, err := f.TryLock()
	if err != nil {
		return false, false, err
	}
	if !got {
		// someone else holds it
		return true, false, nil
	}
	// we just acquired it ourselves: nobody else holds it. Release
	// immediately so we don't interfere with the real owner's absence.
	_ = f.Unlock()
	_ = f.Close()
	return false, false, nil
}
