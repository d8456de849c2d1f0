package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"winbootstrap/internal/execx"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, executableName("present"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(nil, reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestCheckBinariesUsesInjectedLookup(t *testing.T) {
	lookup := func(name string) (string, error) {
		if name == "git" {
			return `C:\Program Files\Git\cmd\git.exe`, nil
		}
		return "", errors.New("not found")
	}
	results := CheckBinaries(lookup, []Requirement{{Name: "Git", Command: "git"}, {Name: "uv", Command: "uv"}})
	if !results[0].Available || results[1].Available {
		t.Fatalf("unexpected availability: %#v", results)
	}
}

func TestFillVersions(t *testing.T) {
	reqs := []Requirement{
		{Name: "Git", Command: "git", VersionArgs: []string{"--version"}},
		{Name: "uv", Command: "uv", VersionArgs: []string{"--version"}},
		{Name: "Ping", Command: "ping"},
		{Name: "Winget", Command: "winget", VersionArgs: []string{"--version"}},
	}
	statuses := []Status{
		{Name: "Git", Command: "git", Available: true},
		{Name: "uv", Command: "uv", Available: true},
		{Name: "Ping", Command: "ping", Available: true},
		{Name: "Winget", Command: "winget"},
	}
	fake := &execx.FakeExecutor{Responses: map[string]execx.ExecResponse{
		execx.Key("git", "--version"): {Stdout: []byte("\ngit version 2.47.0.windows.1\n")},
		execx.Key("uv", "--version"):  {Err: errors.New("exit status 2")},
	}}

	FillVersions(context.Background(), fake, reqs, statuses)

	if statuses[0].Version != "git version 2.47.0.windows.1" {
		t.Fatalf("unexpected git version %q", statuses[0].Version)
	}
	if statuses[1].Version != "" || statuses[1].Detail == "" {
		t.Fatalf("expected uv version failure detail, got %#v", statuses[1])
	}
	if len(fake.Calls) != 2 {
		t.Fatalf("expected only available commands with version args queried, got %v", fake.Lines())
	}
}

func TestCollaboratorsCoverInstalledTools(t *testing.T) {
	seen := map[string]bool{}
	for _, req := range Collaborators() {
		seen[req.Command] = true
	}
	for _, cmd := range []string{"powershell", "ping", "choco", "winget", "uv", "git", "ansible", "ansible-galaxy"} {
		if !seen[cmd] {
			t.Errorf("collaborator %q missing", cmd)
		}
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
