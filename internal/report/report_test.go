package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"winbootstrap/internal/galaxy"
	"winbootstrap/internal/install"
	"winbootstrap/internal/preflight"
	"winbootstrap/internal/report"
	"winbootstrap/internal/reposync"
	"winbootstrap/internal/restore"
)

func tools(failed ...string) []install.Status {
	down := make(map[string]bool, len(failed))
	for _, name := range failed {
		down[name] = true
	}
	names := []string{
		install.ToolChocolatey, install.ToolWinget, install.ToolUV,
		install.ToolPython, install.ToolGit, install.ToolAnsible,
	}
	out := make([]install.Status, 0, len(names))
	for _, name := range names {
		if down[name] {
			out = append(out, install.Status{Tool: name, Method: install.MethodNone, Attempts: 2, Error: "exit status 1"})
			continue
		}
		out = append(out, install.Status{Tool: name, Installed: true, Method: install.MethodWinget, Attempts: 1, Version: "1.0"})
	}
	return out
}

func TestVerdictAndExitCode(t *testing.T) {
	synced := &reposync.State{LocalPath: `C:\Users\me\Documents\windows-ansible`, Present: true, Action: reposync.ActionClone}
	pullFailed := &reposync.State{Present: true, Action: reposync.ActionPull, Error: "exit status 1"}
	cloneFailed := &reposync.State{Action: reposync.ActionClone, Error: "exit status 128"}
	tests := []struct {
		name    string
		tools   []install.Status
		repo    *reposync.State
		halted  bool
		stopped bool
		verdict report.Verdict
		code    int
	}{
		{name: "everything installed", tools: tools(), repo: synced, verdict: report.VerdictSuccess, code: 0},
		{name: "ansible failed only", tools: tools(install.ToolAnsible), repo: synced, verdict: report.VerdictSuccess, code: 0},
		{name: "uv failed", tools: tools(install.ToolUV, install.ToolPython, install.ToolAnsible), repo: synced, verdict: report.VerdictPartial, code: 0},
		{name: "python failed", tools: tools(install.ToolPython), repo: synced, verdict: report.VerdictPartial, code: 0},
		{name: "repo missing", tools: tools(), repo: nil, verdict: report.VerdictFailed, code: 2},
		{name: "pull failed over existing checkout", tools: tools(), repo: pullFailed, verdict: report.VerdictSuccess, code: 0},
		{name: "pull failed and uv failed", tools: tools(install.ToolUV), repo: pullFailed, verdict: report.VerdictPartial, code: 0},
		{name: "clone failed", tools: tools(), repo: cloneFailed, verdict: report.VerdictFailed, code: 2},
		{name: "interrupted", tools: tools(), repo: synced, stopped: true, verdict: report.VerdictFailed, code: 2},
		{name: "halted", halted: true, verdict: report.VerdictFailed, code: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := report.New("run", time.Now())
			r.Tools = tc.tools
			r.Repo = tc.repo
			if tc.halted {
				r.Halt("1 blocking check failed")
			}
			if tc.stopped {
				r.Interrupt("dependency installation")
			}
			if got := r.Verdict(); got != tc.verdict {
				t.Fatalf("verdict: got %s want %s", got, tc.verdict)
			}
			if got := r.ExitCode(); got != tc.code {
				t.Fatalf("exit code: got %d want %d", got, tc.code)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := report.New("7f0c2a", start)
	r.LogPath = `C:\Temp\winbootstrap\logs\bootstrap-20260301-090000.log`
	r.Checks = []preflight.Result{
		{Name: preflight.NameAdministrator, Status: preflight.StatusPass, Message: "running elevated", Hard: true},
		{Name: preflight.NameExecutionPolicy, Status: preflight.StatusWarn, Message: "policy is Restricted"},
	}
	r.RestorePoint = restore.OutcomeCreated
	r.Tools = tools(install.ToolAnsible)
	r.Repo = &reposync.State{
		LocalPath: `C:\Users\me\Documents\windows-ansible`,
		Present:   true,
		Action:    reposync.ActionClone,
		Head:      "0123456789abcdef0123456789abcdef01234567",
		Branch:    "main",
	}
	r.Dependencies = &galaxy.Result{OK: true, Roles: 2, Collections: 3}
	r.Finish(start.Add(95 * time.Second))

	var buf bytes.Buffer
	if err := r.Render(&buf, false); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"== Environment ==",
		"Administrator",
		"blocking",
		"[OK] Created",
		"Chocolatey",
		"│ uv ",
		"CLONE",
		"main @ 0123456789ab",
		"2 roles, 3 collections",
		"[OK] SUCCESS",
		"1m35s",
		"7f0c2a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("expected no ANSI codes when colorize is false")
	}
}

func TestRenderHaltedSkipsChanges(t *testing.T) {
	r := report.New("run", time.Now())
	r.Checks = []preflight.Result{{Name: preflight.NameAdministrator, Status: preflight.StatusFail, Message: "not elevated", Hard: true}}
	r.Halt("1 blocking check failed: Administrator: not elevated")

	var buf bytes.Buffer
	if err := r.Render(&buf, false); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "== Changes ==") {
		t.Fatalf("halted run must not list changes:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] halted: 1 blocking check failed") || !strings.Contains(out, "[ERROR] FAILED") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestStatusLineColor(t *testing.T) {
	plain := report.StatusLine("Verdict", report.KindOK, "SUCCESS", false)
	if plain != "  Verdict:         [OK] SUCCESS" {
		t.Fatalf("unexpected line %q", plain)
	}
	colored := report.StatusLine("Verdict", report.KindError, "FAILED", true)
	if !strings.HasPrefix(colored, "\x1b[31m") || !strings.HasSuffix(colored, "\x1b[0m") {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := report.RenderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if report.RenderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestToolLabel(t *testing.T) {
	if got := report.ToolLabel(install.ToolUV); got != "uv" {
		t.Fatalf("got %q", got)
	}
	if got := report.ToolLabel(install.ToolChocolatey); got != "Chocolatey" {
		t.Fatalf("got %q", got)
	}
}
