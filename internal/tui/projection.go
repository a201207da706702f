package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeycumines/run-stars/internal/protocol"
)

// Severity classifies a projection error banner.
type Severity int

const (
	SeverityLow  Severity = iota // transient, e.g. a parse racing a rewrite-in-progress
	SeverityHigh                 // neither backing file is readable
)

// Banner is the last-error surfaced alongside the task projection.
type Banner struct {
	Severity Severity
	Message  string
}

// ProjectionResult is the outcome of rebuilding the task projection for one
// selected state entry.
type ProjectionResult struct {
	// Tasks is the newly decoded task list. Nil when KeepPrevious is true,
	// or when the banner is high severity.
	Tasks []protocol.Task
	// Banner is non-nil when an error occurred; nil on a clean refresh
	// (callers should clear any prior banner).
	Banner *Banner
	// KeepPrevious is true for a low-severity parse error: the caller must
	// leave the existing projection untouched rather than clearing it.
	KeepPrevious bool
}

// BuildProjection implements §4.7: it reads whichever of the selected
// entry's backing files has the newer modification time (falling back to
// whichever one exists, if only one does), decodes it, and downgrades any
// Running task to Unknown when the entry is not currently Running (a
// Running status in an unlocked file is stale).
func BuildProjection(entry StateEntry, runtimeDir, persistentDir string) ProjectionResult {
	runtimePath := filepath.Join(runtimeDir, entry.FileName)
	persistentPath := filepath.Join(persistentDir, entry.FileName)

	path, ok := pickNewer(entry, runtimePath, persistentPath)
	if !ok {
		return ProjectionResult{Banner: &Banner{
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%s: no readable state file", entry.FileName),
		}}
	}

	f, err := os.Open(path)
	if err != nil {
		return ProjectionResult{Banner: &Banner{
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("open %s: %v", path, err),
		}}
	}
	defer f.Close()

	tasks, err := protocol.Decode(f)
	if err != nil {
		return ProjectionResult{
			KeepPrevious: true,
			Banner: &Banner{
				Severity: SeverityLow,
				Message:  fmt.Sprintf("parse %s: %v", path, err),
			},
		}
	}

	if !entry.Running {
		downgradeRunning(tasks)
	}

	return ProjectionResult{Tasks: tasks}
}

// pickNewer returns whichever of runtimePath/persistentPath exists and has
// the newer modification time, per entry's known presence flags.
func pickNewer(entry StateEntry, runtimePath, persistentPath string) (string, bool) {
	var runtimeInfo, persistentInfo os.FileInfo
	if entry.Runtime {
		if info, err := os.Stat(runtimePath); err == nil {
			runtimeInfo = info
		}
	}
	if entry.Persistent {
		if info, err := os.Stat(persistentPath); err == nil {
			persistentInfo = info
		}
	}

	switch {
	case runtimeInfo != nil && persistentInfo != nil:
		if persistentInfo.ModTime().After(runtimeInfo.ModTime()) {
			return persistentPath, true
		}
		return runtimePath, true
	case runtimeInfo != nil:
		return runtimePath, true
	case persistentInfo != nil:
		return persistentPath, true
	default:
		return "", false
	}
}

// downgradeRunning replaces every Running status with Unknown in place.
func downgradeRunning(tasks []protocol.Task) {
	for i := range tasks {
		if tasks[i].Status == protocol.StatusRunning {
			tasks[i].Status = protocol.StatusUnknown
		}
	}
}
