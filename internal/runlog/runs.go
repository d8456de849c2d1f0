package runlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"winbootstrap/internal/logging"
)

// ErrNoRuns is returned when the log directory holds no run logs.
var ErrNoRuns = errors.New("no bootstrap run logs found")

// Entry describes one run log.
type Entry struct {
	Path      string
	Name      string
	StartedAt time.Time
	Size      int64
}

// List returns the run logs in dir, newest first.
func List(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.RunLogPattern))
	if err != nil {
		return nil, fmt.Errorf("glob run logs: %w", err)
	}
	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		name := filepath.Base(path)
		started, ok := logging.ParseRunLogName(name)
		if !ok {
			started = info.ModTime()
		}
		entries = append(entries, Entry{Path: path, Name: name, StartedAt: started, Size: info.Size()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartedAt.After(entries[j].StartedAt)
	})
	return entries, nil
}

// Latest returns the most recent run log in dir.
func Latest(dir string) (Entry, error) {
	entries, err := List(dir)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNoRuns
	}
	return entries[0], nil
}
