package install

import (
	"context"

	"winbootstrap/internal/config"
)

// Tool names.
const (
	ToolChocolatey = "chocolatey"
	ToolWinget     = "winget"
	ToolUV         = "uv"
	ToolPython     = "python"
	ToolGit        = "git"
	ToolAnsible    = "ansible"
)

const (
	chocolateyInstallScript = "[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; " +
		"iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))"
	appInstallerFamily = "Microsoft.DesktopAppInstaller_8wekyb3d8bbwe"
)

// Step is one external invocation.
type Step struct {
	Name string
	Args []string
}

// Strategy is one installation tier.
type Strategy struct {
	Method Method
	// Requires names a command that must resolve before the strategy may run.
	Requires string
	Steps    []Step
}

// verifier reports whether a tool is usable and, if known, its version.
type verifier func(ctx context.Context, in *Installer) (string, error)

// Tool is a catalog entry.
type Tool struct {
	Name        string
	Command     string
	VersionArgs []string
	// Gate names a tool that must be installed before this one is attempted.
	Gate       string
	Strategies []Strategy
	verify     verifier
}

// Catalog returns the tools in installation order.
func Catalog(cfg *config.Config) []Tool {
	shell := cfg.Probe.Shell
	python := cfg.Install.PythonVersion
	return []Tool{
		{
			Name:        ToolChocolatey,
			Command:     "choco",
			VersionArgs: []string{"--version"},
			Strategies: []Strategy{{
				Method: MethodPowerShell,
				Steps: []Step{{Name: shell, Args: []string{
					"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", chocolateyInstallScript,
				}}},
			}},
		},
		{
			Name:        ToolWinget,
			Command:     "winget",
			VersionArgs: []string{"--version"},
			Strategies: []Strategy{
				{
					Method: MethodAppx,
					Steps: []Step{{Name: shell, Args: []string{
						"-NoProfile", "-NonInteractive", "-Command",
						"Add-AppxPackage -RegisterByFamilyName -MainPackage " + appInstallerFamily,
					}}},
				},
				chocolatey("winget-cli"),
			},
		},
		{
			Name:        ToolUV,
			Command:     "uv",
			VersionArgs: []string{"--version"},
			Strategies:  []Strategy{winget("astral-sh.uv"), chocolatey("uv")},
		},
		{
			Name: ToolPython,
			Gate: ToolUV,
			Strategies: []Strategy{{
				Method:   MethodUV,
				Requires: "uv",
				Steps:    []Step{{Name: "uv", Args: []string{"python", "install", python}}},
			}},
			verify: pythonVerifier(python),
		},
		{
			Name:        ToolGit,
			Command:     "git",
			VersionArgs: []string{"--version"},
			Strategies:  []Strategy{winget("Git.Git"), chocolatey("git")},
		},
		{
			Name:        ToolAnsible,
			Command:     "ansible",
			VersionArgs: []string{"--version"},
			Gate:        ToolUV,
			Strategies: []Strategy{{
				Method:   MethodUV,
				Requires: "uv",
				Steps: []Step{
					{Name: "uv", Args: []string{"tool", "install", "ansible-core"}},
					{Name: "uv", Args: []string{"tool", "install", "ansible", "--with-executables-from", "ansible-core"}},
				},
			}},
		},
	}
}

func winget(id string) Strategy {
	return Strategy{
		Method:   MethodWinget,
		Requires: "winget",
		Steps: []Step{{Name: "winget", Args: []string{
			"install", "--id", id, "-e", "--source", "winget",
			"--accept-package-agreements", "--accept-source-agreements", "--silent",
		}}},
	}
}

func chocolatey(pkg string) Strategy {
	return Strategy{
		Method:   MethodChocolatey,
		Requires: "choco",
		Steps:    []Step{{Name: "choco", Args: []string{"install", pkg, "-y", "--no-progress"}}},
	}
}
