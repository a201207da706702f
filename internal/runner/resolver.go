package runner

import (
	"os"
	"path/filepath"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/rserr"
	"github.com/joeycumines/run-stars/internal/xdg"
)

// Target is a resolved batch directory: its canonical absolute path and the
// encoded identity shared by its runtime and persistent state files.
type Target struct {
	AbsPath string
	Encoded string
}

// ResolveTarget canonicalises dir, validates it is a readable directory, and
// ensures the two state directories exist.
func ResolveTarget(dir string) (Target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Target{}, rserr.New(rserr.KindAccess, "resolve", dir, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return Target{}, rserr.New(rserr.KindAccess, "resolve", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Target{}, rserr.New(rserr.KindAccess, "access", abs, err)
	}
	if !info.IsDir() {
		return Target{}, rserr.NewShape(rserr.ShapeNotDirectory, abs)
	}
	d, err := os.Open(abs)
	if err != nil {
		return Target{}, rserr.New(rserr.KindAccess, "access", abs, err)
	}
	d.Close()

	if err := ensureStateDirs(); err != nil {
		return Target{}, err
	}

	return Target{AbsPath: abs, Encoded: protocol.EncodeIdentity(abs)}, nil
}

func ensureStateDirs() error {
	for _, dir := range []string{xdg.RuntimeDir(), xdg.StateDir()} {
		if err := xdg.EnsureDir(dir); err != nil {
			return rserr.New(rserr.KindMutation, "create state directory", dir, err)
		}
	}
	return nil
}

// RuntimePath returns the path of t's runtime state file.
func (t Target) RuntimePath() string {
	return filepath.Join(xdg.RuntimeDir(), t.Encoded)
}

// PersistentPath returns the path of t's persistent state file.
func (t Target) PersistentPath() string {
	return filepath.Join(xdg.StateDir(), t.Encoded)
}
