package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"winbootstrap/internal/execx"
	"winbootstrap/internal/restore"
	"winbootstrap/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	logDir     string
	target     string
	host       *testsupport.FakeHost
	exec       *execx.FakeExecutor
}

// setupCLITestEnv writes a config into a temp tree and prepares a machine
// where every tool is already installed.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "winbootstrap.toml"),
		logDir:     filepath.Join(base, "logs"),
		target:     filepath.Join(base, "Documents", "windows-ansible"),
		host:       testsupport.NewFakeHost("choco", "winget", "uv", "git", "ansible", "ansible-galaxy", "powershell", "ping"),
	}
	env.exec = &execx.FakeExecutor{Handler: readyMachine}

	testsupport.WriteFile(t, env.configPath, strings.Join([]string{
		"[paths]",
		"log_dir = '" + env.logDir + "'",
		"",
		"[repository]",
		"remote_url = 'https://example.com/org/windows-ansible.git'",
		"local_path = '" + env.target + "'",
		"",
		"[restore_point]",
		"enabled = false",
		"",
	}, "\n"))
	return env
}

func readyMachine(call execx.ExecCall) execx.ExecResponse {
	line := call.Line()
	switch {
	case call.Name == "ping":
		return execx.ExecResponse{Stdout: []byte(testsupport.EchoReply)}
	case strings.Contains(line, "$PSVersionTable"):
		return execx.ExecResponse{Stdout: []byte("5.1.22621.2506\r\n")}
	case strings.Contains(line, "Get-ExecutionPolicy"):
		return execx.ExecResponse{Stdout: []byte("RemoteSigned\r\n")}
	case strings.HasPrefix(line, "uv python list"):
		return execx.ExecResponse{Stdout: []byte("cpython-3.12.7-windows-x86_64-none    C:\\uv\\python.exe\n")}
	case strings.HasPrefix(line, "uv run"):
		return execx.ExecResponse{Stdout: []byte("Python 3.12.7\n")}
	case strings.HasPrefix(line, "git clone"):
		if err := os.MkdirAll(call.Args[2], 0o755); err != nil {
			return execx.ExecResponse{Err: err}
		}
	case strings.HasSuffix(line, "--version"):
		return execx.ExecResponse{Stdout: []byte(call.Name + " 1.0.0\n")}
	}
	return execx.ExecResponse{}
}

func (env *cliTestEnv) machine() machine {
	return machine{
		host:     env.host,
		exec:     env.exec,
		confirm:  restore.StaticConfirmer(false),
		platform: "windows",
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(env.machine())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
