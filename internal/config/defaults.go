package config

import (
	"os"
	"path/filepath"
)

const (
	defaultRemoteURL             = "https://github.com/winbootstrap/windows-ansible.git"
	defaultProjectFolder         = "windows-ansible"
	defaultBranch                = "main"
	defaultManifest              = "requirements.yml"
	defaultShell                 = "powershell"
	defaultMinOSBuild            = 17763
	defaultMinShellMajor         = 5
	defaultNetworkHost           = "8.8.8.8"
	defaultNetworkAttempts       = 2
	defaultNetworkTimeoutSeconds = 5
	defaultMinFreeGiB            = 2.0
	defaultPythonVersion         = "3.12"
	defaultInstallTimeoutMinutes = 20
	defaultRestorePointEnabled   = true
	defaultRestorePointName      = "winbootstrap"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
)

var defaultExecutionPolicies = []string{"RemoteSigned", "Unrestricted", "Bypass"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir(),
		},
		Repository: Repository{
			RemoteURL:     defaultRemoteURL,
			ProjectFolder: defaultProjectFolder,
			Branch:        defaultBranch,
			Manifest:      defaultManifest,
		},
		Probe: Probe{
			Shell:                    defaultShell,
			MinOSBuild:               defaultMinOSBuild,
			MinShellMajor:            defaultMinShellMajor,
			NetworkHost:              defaultNetworkHost,
			NetworkAttempts:          defaultNetworkAttempts,
			NetworkTimeoutSeconds:    defaultNetworkTimeoutSeconds,
			MinFreeGiB:               defaultMinFreeGiB,
			AllowedExecutionPolicies: append([]string(nil), defaultExecutionPolicies...),
		},
		Install: Install{
			PythonVersion:  defaultPythonVersion,
			TimeoutMinutes: defaultInstallTimeoutMinutes,
		},
		RestorePoint: RestorePoint{
			Enabled:     defaultRestorePointEnabled,
			Description: defaultRestorePointName,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultLogDir() string {
	return filepath.Join(os.TempDir(), "winbootstrap", "logs")
}
