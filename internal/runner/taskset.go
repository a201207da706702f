package runner

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/rserr"
)

// BuildTasks lists the regular files directly inside dir (no recursion),
// sorted ascending by absolute path, and returns one Waiting Task per entry.
// If reverse is true the order is flipped after sorting.
func BuildTasks(dir string, reverse bool, now time.Time) ([]protocol.Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, rserr.New(rserr.KindAccess, "list", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// entry vanished between ReadDir and Info; skip it rather than
			// fail the whole batch.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sort.Strings(paths)
	if reverse {
		for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
			paths[i], paths[j] = paths[j], paths[i]
		}
	}

	tasks := make([]protocol.Task, 0, len(paths))
	for _, p := range paths {
		tasks = append(tasks, protocol.NewWaiting(p, now))
	}
	return tasks, nil
}
