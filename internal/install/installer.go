package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
)

// queryTimeout bounds version and listing queries.
const queryTimeout = time.Minute

// Host resolves commands and reloads PATH from the OS.
type Host interface {
	LookPath(name string) (string, error)
	RefreshPath() error
}

// Installer ensures catalog tools are present.
type Installer struct {
	host    Host
	exec    execx.Executor
	timeout time.Duration
	tools   []Tool
	logger  *slog.Logger
}

// New builds an installer over the default catalog.
func New(cfg *config.Config, host Host, runner execx.Executor, logger *slog.Logger) *Installer {
	return &Installer{
		host:    host,
		exec:    runner,
		timeout: cfg.InstallTimeout(),
		tools:   Catalog(cfg),
		logger:  logging.NewComponentLogger(logger, "install"),
	}
}

// Tools returns the catalog in installation order.
func (in *Installer) Tools() []Tool {
	return append([]Tool(nil), in.tools...)
}

// EnsureAll ensures every catalog tool in order, skipping tools whose gate
// failed. Cancellation stops further work; remaining tools are reported as
// skipped.
func (in *Installer) EnsureAll(ctx context.Context) []Status {
	statuses := make([]Status, 0, len(in.tools))
	installed := make(map[string]bool, len(in.tools))
	for _, tool := range in.tools {
		var status Status
		switch {
		case ctx.Err() != nil:
			status = Status{Tool: tool.Name, Method: MethodNone, Skipped: true, Error: ctx.Err().Error()}
		case tool.Gate != "" && !installed[tool.Gate]:
			status = in.skipGated(tool)
		default:
			status = in.Ensure(ctx, tool)
		}
		installed[tool.Name] = status.Installed
		statuses = append(statuses, status)
	}
	return statuses
}

func (in *Installer) skipGated(tool Tool) Status {
	reason := fmt.Sprintf("%s is not installed", tool.Gate)
	logging.WarnWithContext(in.logger, "tool skipped", "install_skipped",
		logging.String(logging.FieldTool, tool.Name),
		logging.String("reason", reason),
		logging.String(logging.FieldImpact, tool.Name+" will be missing from this machine"),
	)
	return Status{Tool: tool.Name, Method: MethodNone, Skipped: true, Error: reason}
}

// Ensure makes tool present. It returns immediately when the tool already
// verifies; otherwise strategies run in order and the first one that
// verifies wins.
func (in *Installer) Ensure(ctx context.Context, tool Tool) Status {
	if version, err := in.verify(ctx, tool); err == nil {
		in.logger.Info("tool already installed",
			logging.String(logging.FieldTool, tool.Name),
			logging.String("version", version),
		)
		return Status{Tool: tool.Name, Installed: true, Method: MethodPreexisting, Version: version}
	}

	status := Status{Tool: tool.Name, Method: MethodNone}
	var lastErr error
	for _, strategy := range tool.Strategies {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		status.Attempts++
		logger := in.logger.With(
			logging.String(logging.FieldTool, tool.Name),
			logging.String(logging.FieldStrategy, string(strategy.Method)),
		)
		logger.Info("installing tool")

		version, err := in.attempt(ctx, tool, strategy)
		if err == nil {
			status.Installed = true
			status.Method = strategy.Method
			status.Version = version
			status.Error = ""
			logging.Success(logger, "tool installed", logging.String("version", version))
			return status
		}
		lastErr = err
		attrs := []logging.Attr{
			logging.Error(err),
			logging.Int("attempt", status.Attempts),
			logging.String(logging.FieldImpact, "trying the next strategy if one remains"),
		}
		if code := execx.ExitCode(err); code >= 0 {
			attrs = append(attrs, logging.Int("exit_code", code))
		}
		logging.WarnWithContext(logger, "install strategy failed", "install_strategy_failed", attrs...)
	}

	if lastErr != nil {
		status.Error = lastErr.Error()
	}
	logging.ErrorWithContext(in.logger, "tool not installed", "install_failed",
		logging.String(logging.FieldTool, tool.Name),
		logging.Int("attempts", status.Attempts),
		logging.String(logging.FieldErrorHint, "install "+tool.Name+" manually and re-run"),
		logging.String(logging.FieldImpact, "later steps that need "+tool.Name+" will be skipped"),
	)
	return status
}

// attempt runs one strategy's steps, reloading PATH after every invocation,
// then verifies the tool.
func (in *Installer) attempt(ctx context.Context, tool Tool, strategy Strategy) (string, error) {
	if strategy.Requires != "" {
		if _, err := in.host.LookPath(strategy.Requires); err != nil {
			return "", fmt.Errorf("%s not resolvable: %w", strategy.Requires, err)
		}
	}
	for _, step := range strategy.Steps {
		err := in.invoke(ctx, step)
		if refreshErr := in.host.RefreshPath(); refreshErr != nil {
			in.logger.Debug("PATH refresh failed", logging.Error(refreshErr))
		}
		if err != nil {
			return "", err
		}
	}
	return in.verify(ctx, tool)
}

func (in *Installer) invoke(ctx context.Context, step Step) error {
	runCtx := ctx
	if in.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}
	in.logger.Debug("running installer", logging.String("command", step.Name+" "+strings.Join(step.Args, " ")))
	_, _, err := in.exec.Run(runCtx, "", step.Name, step.Args...)
	return err
}

// verify reports whether tool is usable now.
func (in *Installer) verify(ctx context.Context, tool Tool) (string, error) {
	if tool.verify != nil {
		return tool.verify(ctx, in)
	}
	if tool.Command == "" {
		return "", errors.New("no verification defined")
	}
	if _, err := in.host.LookPath(tool.Command); err != nil {
		return "", err
	}
	if len(tool.VersionArgs) == 0 {
		return "", nil
	}
	stdout, _, err := in.query(ctx, tool.Command, tool.VersionArgs...)
	if err != nil {
		// Resolvable but unable to report a version still counts as present.
		in.logger.Debug("version query failed", logging.String(logging.FieldTool, tool.Name), logging.Error(err))
		return "", nil
	}
	return execx.FirstLine(stdout), nil
}

func (in *Installer) query(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return in.exec.Run(queryCtx, "", name, args...)
}
