package reposync_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"winbootstrap/internal/reposync"
	"winbootstrap/internal/testsupport"
)

func TestResolveTargetDirPrefersExplicitPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	host := testsupport.NewFakeHost()
	host.Documents = t.TempDir()

	got, err := reposync.ResolveTargetDir(cfg, host)
	if err != nil {
		t.Fatalf("ResolveTargetDir: %v", err)
	}
	if got != cfg.Repository.LocalPath {
		t.Fatalf("expected %s, got %s", cfg.Repository.LocalPath, got)
	}
}

func TestResolveTargetDirUsesOneDriveDocuments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Repository.LocalPath = ""
	oneDrive := t.TempDir()
	if err := os.MkdirAll(filepath.Join(oneDrive, "Documents"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Setenv("OneDrive", oneDrive)
	host := testsupport.NewFakeHost()
	host.Documents = t.TempDir()

	got, err := reposync.ResolveTargetDir(cfg, host)
	if err != nil {
		t.Fatalf("ResolveTargetDir: %v", err)
	}
	want := filepath.Join(oneDrive, "Documents", "windows-ansible")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveTargetDirFallsBackToHostDocuments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Repository.LocalPath = ""
	t.Setenv("OneDrive", filepath.Join(t.TempDir(), "missing"))
	host := testsupport.NewFakeHost()
	host.Documents = t.TempDir()

	got, err := reposync.ResolveTargetDir(cfg, host)
	if err != nil {
		t.Fatalf("ResolveTargetDir: %v", err)
	}
	if want := filepath.Join(host.Documents, "windows-ansible"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveTargetDirReportsHostError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Repository.LocalPath = ""
	t.Setenv("OneDrive", "")
	host := testsupport.NewFakeHost()
	host.DocsErr = errors.New("registry unavailable")

	if _, err := reposync.ResolveTargetDir(cfg, host); err == nil {
		t.Fatal("expected error")
	}
}
