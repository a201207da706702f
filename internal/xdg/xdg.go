// Package xdg resolves the two well-known state directories. It is a thin,
// deliberately minimal collaborator (directory lookup is explicitly out of
// scope for the hard engineering core) rather than a wrapper around a
// third-party XDG base-directory library: none of the retrieved example
// repos import one, and the fallback rule here (root vs non-root) is
// simple enough that reaching for a dependency would add indirection
// without grounding.
package xdg

import (
	"os"
	"path/filepath"
	"strconv"
)

// toolName is the sub-directory created under each base directory.
const toolName = "run_stars"

// RuntimeDir returns the volatile runtime directory for this tool:
// $XDG_RUNTIME_DIR/run_stars, falling back to /run for root and
// /run/user/<uid>/run_stars otherwise.
func RuntimeDir() string {
	if os.Getenv("XDG_RUNTIME_DIR") == "" && os.Geteuid() == 0 {
		return "/run"
	}
	return filepath.Join(runtimeBase(), toolName)
}

// StateDir returns the persistent state directory for this tool:
// $XDG_STATE_HOME/run_stars, falling back to /var/lib/run_stars for root
// and $HOME/.local/state/run_stars otherwise.
func StateDir() string {
	return filepath.Join(stateBase(), toolName)
}

func runtimeBase() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return filepath.Join("/run", "user", uidString())
}

func stateBase() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	if os.Geteuid() == 0 {
		return "/var/lib"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".local", "state")
}

func uidString() string {
	return strconv.Itoa(os.Geteuid())
}

// EnsureDir creates dir (and any missing parents) if it does not already
// exist, inheriting the process umask, and returns nil if it already
// exists as a directory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	return nil
}
