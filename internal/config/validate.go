package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-version"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRepository(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateInstall(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRepository() error {
	if c.Repository.RemoteURL == "" {
		return errors.New("repository.remote_url must be set")
	}
	if strings.ContainsAny(c.Repository.ProjectFolder, `/\`) {
		return errors.New("repository.project_folder must be a single folder name")
	}
	// scp-style remotes (git@host:org/repo.git) are not URLs but git accepts them.
	if !strings.Contains(c.Repository.RemoteURL, "://") {
		if !strings.Contains(c.Repository.RemoteURL, "@") || !strings.Contains(c.Repository.RemoteURL, ":") {
			return fmt.Errorf("repository.remote_url %q is not a git remote", c.Repository.RemoteURL)
		}
		return nil
	}
	parsed, err := url.Parse(c.Repository.RemoteURL)
	if err != nil {
		return fmt.Errorf("repository.remote_url: %w", err)
	}
	if parsed.Host == "" && parsed.Scheme != "file" {
		return fmt.Errorf("repository.remote_url %q has no host", c.Repository.RemoteURL)
	}
	return nil
}

func (c *Config) validateProbe() error {
	if err := ensurePositiveMap(map[string]int{
		"probe.min_os_build":            c.Probe.MinOSBuild,
		"probe.min_shell_major":         c.Probe.MinShellMajor,
		"probe.network_attempts":        c.Probe.NetworkAttempts,
		"probe.network_timeout_seconds": c.Probe.NetworkTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Probe.MinFreeGiB < 0 {
		return errors.New("probe.min_free_gib must be >= 0")
	}
	return nil
}

func (c *Config) validateInstall() error {
	if _, err := version.NewVersion(c.Install.PythonVersion); err != nil {
		return fmt.Errorf("install.python_version %q: %w", c.Install.PythonVersion, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "success":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, success, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
