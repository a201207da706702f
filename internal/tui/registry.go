// Package tui implements the monitor's reactive data plane: the state
// registry, task projection, directory watcher, and event reducer that
// together drive the bubbletea model in cmd/run-stars-tui.
package tui

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/statelock"
)

// StateEntry is the TUI's logical union of runtime + persistent presence for
// one encoded target identity. Equality is on FileName alone.
type StateEntry struct {
	FileName   string
	Persistent bool
	Runtime    bool
	Running    bool
}

// DecodedPath returns the absolute target path this entry's encoded
// FileName represents.
func (e StateEntry) DecodedPath() string {
	return protocol.DecodeIdentity(e.FileName)
}

// Registry is the ordered set of known state entries, sorted by decoded
// path ascending.
type Registry struct {
	entries []StateEntry
}

// NewRegistry builds the initial registry per §4.6: list the runtime
// directory first (each entry gains Runtime and a lock probe for Running),
// then the persistent directory (existing entries gain Persistent; new
// names are appended), then sorts by decoded path.
func NewRegistry(runtimeDir, persistentDir string) (*Registry, error) {
	r := &Registry{}

	runtimeNames, err := listRegularFiles(runtimeDir)
	if err != nil {
		return nil, err
	}
	for _, name := range runtimeNames {
		running, _, err := statelock.Probe(filepath.Join(runtimeDir, name))
		if err != nil {
			return nil, err
		}
		r.entries = append(r.entries, StateEntry{FileName: name, Runtime: true, Running: running})
	}

	persistentNames, err := listRegularFiles(persistentDir)
	if err != nil {
		return nil, err
	}
	for _, name := range persistentNames {
		if i, ok := r.indexOf(name); ok {
			r.entries[i].Persistent = true
			continue
		}
		r.entries = append(r.entries, StateEntry{FileName: name, Persistent: true})
	}

	r.sort()
	return r, nil
}

func listRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Entries returns the registry's entries in display order. Callers must not
// mutate the returned slice.
func (r *Registry) Entries() []StateEntry {
	return r.entries
}

// Len reports the number of known entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get returns the entry at position i, and whether i was in range.
func (r *Registry) Get(i int) (StateEntry, bool) {
	if i < 0 || i >= len(r.entries) {
		return StateEntry{}, false
	}
	return r.entries[i], true
}

// IndexOf returns the position of the entry named name, if any.
func (r *Registry) IndexOf(name string) (int, bool) {
	return r.indexOf(name)
}

func (r *Registry) indexOf(name string) (int, bool) {
	for i, e := range r.entries {
		if e.FileName == name {
			return i, true
		}
	}
	return -1, false
}

// Add merges an AddState delta into the registry: flags in delta are
// OR'd into any existing entry of the same name, or a new entry is
// appended (then the registry is re-sorted, since a brand new name may
// sort anywhere).
func (r *Registry) Add(delta StateEntry) {
	if i, ok := r.indexOf(delta.FileName); ok {
		e := &r.entries[i]
		e.Persistent = e.Persistent || delta.Persistent
		e.Runtime = e.Runtime || delta.Runtime
		e.Running = e.Running || delta.Running
		return
	}
	r.entries = append(r.entries, delta)
	r.sort()
}

// Remove merges a RemoveState delta into the registry: flags present in
// delta are cleared from any existing entry of the same name. If both
// Runtime and Persistent end up false the entry is deleted entirely.
// It reports whether the entry still exists afterward, and whether it
// existed at all.
func (r *Registry) Remove(delta StateEntry) (stillExists, existed bool) {
	i, ok := r.indexOf(delta.FileName)
	if !ok {
		return false, false
	}
	e := &r.entries[i]
	if delta.Persistent {
		e.Persistent = false
	}
	if delta.Runtime {
		e.Runtime = false
	}
	if delta.Running {
		e.Running = false
	}
	if !e.Runtime && !e.Persistent {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		return false, true
	}
	return true, true
}

func (r *Registry) sort() {
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].DecodedPath() < r.entries[j].DecodedPath()
	})
}
