package bootstrap_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"winbootstrap/internal/bootstrap"
	"winbootstrap/internal/logging"
	"winbootstrap/internal/report"
	"winbootstrap/internal/restore"
	"winbootstrap/internal/testsupport"
)

func TestExecuteWritesLogAndSummary(t *testing.T) {
	m := newMachine()
	cfg := testsupport.NewConfig(t)
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	var stdout bytes.Buffer

	code, err := bootstrap.Execute(context.Background(), cfg, bootstrap.Options{
		Stdout:   &stdout,
		Host:     m.host,
		Exec:     m.executor(),
		Confirm:  restore.StaticConfirmer(false),
		Now:      func() time.Time { return started },
		RunID:    "run-1234",
		Platform: "windows",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != report.ExitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, stdout.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "[OK] SUCCESS") || !strings.Contains(out, "run-1234") {
		t.Fatalf("summary missing verdict or run id:\n%s", out)
	}

	logPath := filepath.Join(cfg.Paths.LogDir, logging.RunLogName(started))
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	log := string(data)
	for _, want := range []string{"[SUCCESS] tool installed", "[INFO] bootstrap started", "run_id=run-1234", "verdict=SUCCESS"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q", want)
		}
	}

	lock, err := bootstrap.AcquireLock(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("lock must be released after Execute: %v", err)
	}
	_ = lock.Release()
}

func TestExecuteRefusesConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	held, err := bootstrap.AcquireLock(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer func() { _ = held.Release() }()

	m := newMachine()
	fake := m.executor()
	code, err := bootstrap.Execute(context.Background(), cfg, bootstrap.Options{
		Stdout: &bytes.Buffer{},
		Host:   m.host,
		Exec:   fake,
	})
	if !errors.Is(err, bootstrap.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if code != report.ExitFailed {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("expected no invocations, got %v", fake.Lines())
	}
}

func TestExecuteHaltReturnsOne(t *testing.T) {
	m := newMachine()
	m.host.Free = 1 << 30
	var stdout bytes.Buffer

	code, err := bootstrap.Execute(context.Background(), testsupport.NewConfig(t), bootstrap.Options{
		Stdout:   &stdout,
		Host:     m.host,
		Exec:     m.executor(),
		Platform: "windows",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != report.ExitHalted {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Disk space") {
		t.Fatalf("expected disk failure in summary:\n%s", stdout.String())
	}
}
