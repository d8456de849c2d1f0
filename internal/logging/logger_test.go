package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"winbootstrap/internal/config"
	"winbootstrap/internal/logging"
)

func TestNewRunWritesConsoleAndFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)

	var console bytes.Buffer
	run, err := logging.NewRun(&cfg, "run-123", started, &console)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	wantPath := filepath.Join(cfg.Paths.LogDir, "bootstrap-20260304-050607.log")
	if run.LogPath != wantPath {
		t.Fatalf("unexpected log path: got %q want %q", run.LogPath, wantPath)
	}

	run.Logger.Debug("debug detail")
	run.Logger.Info("probe started")
	logging.Success(run.Logger, "probe passed")
	if err := run.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if strings.Contains(console.String(), "debug detail") {
		t.Fatalf("expected console to honour info level, got %q", console.String())
	}
	if !strings.Contains(console.String(), "SUCCESS probe passed") {
		t.Fatalf("expected success on console, got %q", console.String())
	}

	content, err := os.ReadFile(run.LogPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 file lines (debug included), got %d: %q", len(lines), content)
	}
	if !strings.Contains(lines[0], "] [DEBUG] debug detail run_id=run-123") {
		t.Fatalf("unexpected debug line %q", lines[0])
	}
	if !strings.Contains(lines[2], "] [SUCCESS] probe passed") {
		t.Fatalf("unexpected success line %q", lines[2])
	}
}

func TestNewJSONConsole(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := logging.New(logging.Options{Level: "info", Format: "json", Console: &console, RunID: "r1"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	logging.Success(logger, "done")
	var payload map[string]any
	if err := json.Unmarshal(console.Bytes(), &payload); err != nil {
		t.Fatalf("expected json line, got %q: %v", console.String(), err)
	}
	if payload["level"] != "success" {
		t.Fatalf("expected success level, got %v", payload["level"])
	}
	if payload["run_id"] != "r1" {
		t.Fatalf("expected run_id, got %v", payload["run_id"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml", Console: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestPruneRunLogsKeepsRecentAndCurrent(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "bootstrap-20200101-000000.log")
	current := filepath.Join(dir, "bootstrap-20200102-000000.log")
	recent := filepath.Join(dir, "bootstrap-20260101-000000.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, current, recent, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -45)
	for _, path := range []string{old, current, other} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	removed := logging.PruneRunLogs(logging.NewNop(), dir, 30, current)
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err=%v", err)
	}
	for _, path := range []string{current, recent, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}

func TestPruneRunLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bootstrap-20200101-000000.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(-1, 0, 0)
	_ = os.Chtimes(path, stale, stale)
	if removed := logging.PruneRunLogs(nil, dir, 0, ""); removed != 0 {
		t.Fatalf("expected pruning disabled, removed %d", removed)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var console bytes.Buffer
	color := false
	logger, _, err := logging.New(logging.Options{Level: "info", Console: &console, Color: &color})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "restore point failed", "restore_point_failed", logging.String(logging.FieldImpact, "no checkpoint"))
	out := console.String()
	if !strings.Contains(out, "error_hint=") {
		t.Fatalf("expected default error hint, got %q", out)
	}
	if !strings.Contains(out, `impact="no checkpoint"`) {
		t.Fatalf("expected caller impact preserved, got %q", out)
	}
}

func TestParseRunLogNameRoundTrip(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 30, 15, 0, time.Local)
	got, ok := logging.ParseRunLogName(logging.RunLogName(started))
	if !ok || !got.Equal(started) {
		t.Fatalf("ParseRunLogName = %v, %v", got, ok)
	}
	for _, name := range []string{"winbootstrap.lock", "bootstrap-latest.log", "bootstrap-20260301-093015.txt"} {
		if _, ok := logging.ParseRunLogName(name); ok {
			t.Errorf("%s: expected no match", name)
		}
	}
}
