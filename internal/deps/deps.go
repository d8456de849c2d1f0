package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"winbootstrap/internal/execx"
)

// Requirement defines an external command the bootstrap drives.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional commands are installed by the bootstrap itself; their absence
	// before a run is expected.
	Optional    bool
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Version     string
	Detail      string
}

// LookPathFunc resolves a command name to a path.
type LookPathFunc func(name string) (string, error)

// Collaborators lists every program a bootstrap run may invoke.
func Collaborators() []Requirement {
	return []Requirement{
		{Name: "PowerShell", Command: "powershell", Description: "version, policy, and restore point queries", VersionArgs: []string{"-NoProfile", "-Command", "$PSVersionTable.PSVersion.ToString()"}},
		{Name: "Ping", Command: "ping", Description: "network reachability check"},
		{Name: "Chocolatey", Command: "choco", Description: "fallback package manager", Optional: true, VersionArgs: []string{"--version"}},
		{Name: "Winget", Command: "winget", Description: "primary package manager", Optional: true, VersionArgs: []string{"--version"}},
		{Name: "uv", Command: "uv", Description: "python toolchain manager", Optional: true, VersionArgs: []string{"--version"}},
		{Name: "Git", Command: "git", Description: "repository sync", Optional: true, VersionArgs: []string{"--version"}},
		{Name: "Ansible", Command: "ansible", Description: "configuration management", Optional: true, VersionArgs: []string{"--version"}},
		{Name: "Ansible Galaxy", Command: "ansible-galaxy", Description: "role and collection installer", Optional: true, VersionArgs: []string{"--version"}},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
// A nil lookup uses exec.LookPath.
func CheckBinaries(lookup LookPathFunc, requirements []Requirement) []Status {
	if lookup == nil {
		lookup = exec.LookPath
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := lookup(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// FillVersions queries the version of every available status whose
// requirement declares VersionArgs. Query failures land in Detail.
func FillVersions(ctx context.Context, runner execx.Executor, requirements []Requirement, statuses []Status) {
	args := make(map[string][]string, len(requirements))
	for _, req := range requirements {
		args[strings.TrimSpace(req.Command)] = req.VersionArgs
	}
	for i := range statuses {
		status := &statuses[i]
		versionArgs := args[status.Command]
		if !status.Available || len(versionArgs) == 0 {
			continue
		}
		stdout, _, err := runner.Run(ctx, "", status.Command, versionArgs...)
		if err != nil {
			status.Detail = fmt.Sprintf("version query failed: %v", err)
			continue
		}
		status.Version = execx.FirstLine(stdout)
	}
}
