package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRepository(); err != nil {
		return err
	}
	c.normalizeProbe()
	c.normalizeInstall()
	c.normalizeRestorePoint()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir()
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRepository() error {
	c.Repository.RemoteURL = strings.TrimSpace(c.Repository.RemoteURL)
	c.Repository.ProjectFolder = strings.Trim(strings.TrimSpace(c.Repository.ProjectFolder), `/\`)
	if c.Repository.ProjectFolder == "" {
		c.Repository.ProjectFolder = defaultProjectFolder
	}
	c.Repository.Branch = strings.TrimSpace(c.Repository.Branch)
	if c.Repository.Branch == "" {
		c.Repository.Branch = defaultBranch
	}
	c.Repository.Manifest = strings.TrimSpace(c.Repository.Manifest)
	if c.Repository.Manifest == "" {
		c.Repository.Manifest = defaultManifest
	}
	if strings.TrimSpace(c.Repository.LocalPath) == "" {
		c.Repository.LocalPath = ""
		return nil
	}
	var err error
	if c.Repository.LocalPath, err = expandPath(strings.TrimSpace(c.Repository.LocalPath)); err != nil {
		return fmt.Errorf("repository.local_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeProbe() {
	c.Probe.Shell = strings.TrimSpace(c.Probe.Shell)
	if c.Probe.Shell == "" {
		c.Probe.Shell = defaultShell
	}
	c.Probe.NetworkHost = strings.TrimSpace(c.Probe.NetworkHost)
	if c.Probe.NetworkHost == "" {
		c.Probe.NetworkHost = defaultNetworkHost
	}
	if c.Probe.NetworkAttempts <= 0 {
		c.Probe.NetworkAttempts = defaultNetworkAttempts
	}
	if c.Probe.NetworkTimeoutSeconds <= 0 {
		c.Probe.NetworkTimeoutSeconds = defaultNetworkTimeoutSeconds
	}
	policies := make([]string, 0, len(c.Probe.AllowedExecutionPolicies))
	seen := make(map[string]struct{}, len(c.Probe.AllowedExecutionPolicies))
	for _, policy := range c.Probe.AllowedExecutionPolicies {
		trimmed := strings.TrimSpace(policy)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		policies = append(policies, trimmed)
	}
	if len(policies) == 0 {
		policies = append(policies, defaultExecutionPolicies...)
	}
	c.Probe.AllowedExecutionPolicies = policies
}

func (c *Config) normalizeInstall() {
	c.Install.PythonVersion = strings.TrimPrefix(strings.TrimSpace(c.Install.PythonVersion), "v")
	if c.Install.PythonVersion == "" {
		c.Install.PythonVersion = defaultPythonVersion
	}
	if c.Install.TimeoutMinutes <= 0 {
		c.Install.TimeoutMinutes = defaultInstallTimeoutMinutes
	}
}

func (c *Config) normalizeRestorePoint() {
	c.RestorePoint.Description = strings.TrimSpace(c.RestorePoint.Description)
	if c.RestorePoint.Description == "" {
		c.RestorePoint.Description = defaultRestorePointName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
