package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Repository describes the configuration-management repository to sync.
type Repository struct {
	RemoteURL     string `toml:"remote_url"`
	ProjectFolder string `toml:"project_folder"`
	// LocalPath overrides the Documents-relative target directory when set.
	LocalPath string `toml:"local_path"`
	Branch    string `toml:"branch"`
	Manifest  string `toml:"manifest"`
}

// Probe contains thresholds for the environment checks.
type Probe struct {
	Shell                    string   `toml:"shell"`
	MinOSBuild               int      `toml:"min_os_build"`
	MinShellMajor            int      `toml:"min_shell_major"`
	NetworkHost              string   `toml:"network_host"`
	NetworkAttempts          int      `toml:"network_attempts"`
	NetworkTimeoutSeconds    int      `toml:"network_timeout_seconds"`
	MinFreeGiB               float64  `toml:"min_free_gib"`
	AllowedExecutionPolicies []string `toml:"allowed_execution_policies"`
}

// Install contains tiered installer settings.
type Install struct {
	PythonVersion  string `toml:"python_version"`
	TimeoutMinutes int    `toml:"timeout_minutes"`
}

// RestorePoint controls the optional system checkpoint taken before mutation.
type RestorePoint struct {
	Enabled     bool   `toml:"enabled"`
	Description string `toml:"description"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for winbootstrap.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - Repository: remote URL, target folder, branch, and requirements manifest
//   - Probe: environment check thresholds
//   - Install: toolchain versions and installer timeouts
//   - RestorePoint: checkpoint prompt and description
//   - Logging: log format, level, and retention
type Config struct {
	Paths        Paths        `toml:"paths"`
	Repository   Repository   `toml:"repository"`
	Probe        Probe        `toml:"probe"`
	Install      Install      `toml:"install"`
	RestorePoint RestorePoint `toml:"restore_point"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return expandPath("~/.config/winbootstrap/config.toml")
	}
	return filepath.Join(dir, "winbootstrap", "config.toml"), nil
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: the defaults are returned with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("winbootstrap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes to.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// NetworkTimeout bounds a single reachability attempt.
func (c *Config) NetworkTimeout() time.Duration {
	return time.Duration(c.Probe.NetworkTimeoutSeconds) * time.Second
}

// InstallTimeout bounds a single installer invocation.
func (c *Config) InstallTimeout() time.Duration {
	return time.Duration(c.Install.TimeoutMinutes) * time.Minute
}

// MinFreeBytes converts the disk threshold to bytes.
func (c *Config) MinFreeBytes() uint64 {
	return uint64(c.Probe.MinFreeGiB * (1 << 30))
}

var windowsEnvPattern = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// expandEnv resolves both $VAR and %VAR% references. Unknown %VAR% tokens are
// left untouched so the failure surfaces as a missing path rather than an
// empty segment.
func expandEnv(value string) string {
	value = windowsEnvPattern.ReplaceAllStringFunc(value, func(token string) string {
		name := strings.Trim(token, "%")
		if resolved, ok := os.LookupEnv(name); ok {
			return resolved
		}
		return token
	})
	return os.ExpandEnv(value)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	pathValue = expandEnv(pathValue)
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ErrConfigExists is returned by WriteSample when it would clobber a file.
var ErrConfigExists = errors.New("config file already exists")

// WriteSample writes the embedded sample configuration to path, or to the
// default location when path is blank, and returns where it landed. An
// existing file is only replaced when overwrite is set.
func WriteSample(path string, overwrite bool) (string, error) {
	target := strings.TrimSpace(path)
	var err error
	if target == "" {
		target, err = DefaultConfigPath()
	} else {
		target, err = expandPath(target)
	}
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(target, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return target, fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, target)
	}
	if err != nil {
		return target, fmt.Errorf("open %s: %w", target, err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		file.Close()
		return target, fmt.Errorf("write sample config: %w", err)
	}
	return target, file.Close()
}
