package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneRunLogs deletes run logs in dir last modified more than keepDays ago
// and reports how many went. The log named keep is never touched, nor is
// anything that does not look like a run log. keepDays <= 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, dir string, keepDays int, keep string) int {
	if keepDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, RunLogPattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	keepName := filepath.Base(keep)

	pruned := 0
	for _, path := range matches {
		name := filepath.Base(path)
		if name == keepName {
			continue
		}
		if _, ok := ParseRunLogName(name); !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "could not prune old run log", "log_prune_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the log directory"),
				String(FieldImpact, "old run log stays on disk"),
			)
			continue
		}
		pruned++
		if logger != nil {
			logger.Debug("old run log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return pruned
}
