package galaxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
)

// Result reports the outcome of a materialization.
type Result struct {
	OK bool
	// Skipped is set when no manifest exists.
	Skipped     bool
	Roles       int
	Collections int
	Error       string
}

// Host resolves commands on PATH.
type Host interface {
	LookPath(name string) (string, error)
}

// Materializer runs ansible-galaxy against a repository manifest.
type Materializer struct {
	manifest string
	host     Host
	exec     execx.Executor
	timeout  time.Duration
	logger   *slog.Logger
}

// NewMaterializer builds a materializer for cfg's manifest name.
func NewMaterializer(cfg *config.Config, host Host, runner execx.Executor, logger *slog.Logger) *Materializer {
	return &Materializer{
		manifest: cfg.Repository.Manifest,
		host:     host,
		exec:     runner,
		timeout:  cfg.InstallTimeout(),
		logger:   logging.NewComponentLogger(logger, "galaxy"),
	}
}

// Materialize installs the dependencies declared in repoPath. A missing
// manifest is not an error.
func (m *Materializer) Materialize(ctx context.Context, repoPath string) Result {
	manifestPath := filepath.Join(repoPath, m.manifest)
	if _, err := os.Stat(manifestPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Info("no requirements manifest; nothing to install", logging.String("manifest", manifestPath))
			return Result{OK: true, Skipped: true}
		}
		return m.fail(Result{}, fmt.Errorf("inspect manifest: %w", err), "")
	}

	var result Result
	if counts, err := ParseManifest(manifestPath); err != nil {
		m.logger.Debug("manifest not understood; counts unavailable", logging.Error(err))
	} else {
		result.Roles = counts.Roles
		result.Collections = counts.Collections
	}

	if _, err := m.host.LookPath("ansible-galaxy"); err != nil {
		return m.fail(result, fmt.Errorf("ansible-galaxy not available: %w", err), "install Ansible and re-run")
	}

	runCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	m.logger.Info("installing Ansible dependencies",
		logging.String("manifest", manifestPath),
		logging.Int("roles", result.Roles),
		logging.Int("collections", result.Collections),
	)
	if _, _, err := m.exec.Run(runCtx, repoPath, "ansible-galaxy", "install", "-r", m.manifest); err != nil {
		return m.fail(result, err, "run ansible-galaxy install -r "+m.manifest+" manually to see the full error")
	}
	result.OK = true
	logging.Success(m.logger, "Ansible dependencies installed",
		logging.Int("roles", result.Roles),
		logging.Int("collections", result.Collections),
	)
	return result
}

func (m *Materializer) fail(result Result, err error, hint string) Result {
	result.OK = false
	result.Error = err.Error()
	attrs := []logging.Attr{
		logging.Error(err),
		logging.String(logging.FieldImpact, "playbooks that need these roles will fail"),
	}
	if hint != "" {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	}
	logging.WarnWithContext(m.logger, "dependency installation failed", "galaxy_failed", attrs...)
	return result
}
