package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
	"winbootstrap/internal/report"
	"winbootstrap/internal/restore"
	"winbootstrap/internal/system"
)

// Options supplies the collaborators of a full run. Zero values select the
// real machine.
type Options struct {
	Stdout  io.Writer
	Host    system.Host
	Exec    execx.Executor
	Confirm restore.Confirmer
	Now     func() time.Time
	RunID   string
	// Platform overrides the GOOS the probe assumes.
	Platform string
}

func (o *Options) applyDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Host == nil {
		o.Host = system.NewLocal()
	}
	if o.Exec == nil {
		o.Exec = execx.DefaultExecutor{}
	}
	if o.Confirm == nil {
		o.Confirm = restore.TerminalConfirmer{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
}

// Execute performs a complete bootstrap run and returns the process exit
// code. The error is non-nil only when the run could not start.
func Execute(ctx context.Context, cfg *config.Config, opts Options) (int, error) {
	if cfg == nil {
		return report.ExitFailed, fmt.Errorf("config is required")
	}
	opts.applyDefaults()

	if err := cfg.EnsureDirectories(); err != nil {
		return report.ExitFailed, err
	}
	lock, err := AcquireLock(cfg.Paths.LogDir)
	if err != nil {
		return report.ExitFailed, err
	}
	defer func() { _ = lock.Release() }()

	startedAt := opts.Now()
	run, err := logging.NewRun(cfg, opts.RunID, startedAt, opts.Stdout)
	if err != nil {
		return report.ExitFailed, fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = run.Close() }()

	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run.Logger.Info("bootstrap started",
		logging.String(logging.FieldEventType, "bootstrap_started"),
		logging.String("log_file", run.LogPath),
		logging.String("lock", lock.Path()),
	)

	rep := report.New(run.RunID, startedAt)
	rep.LogPath = run.LogPath
	NewFlow(cfg, opts.Host, opts.Exec, opts.Confirm, run.Logger, WithPlatform(opts.Platform)).Run(signalCtx, rep)
	rep.Finish(opts.Now())

	verdict := rep.Verdict()
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "bootstrap_finished"),
		logging.String("verdict", string(verdict)),
		logging.Duration("elapsed", rep.Elapsed),
	}
	switch verdict {
	case report.VerdictSuccess:
		logging.Success(run.Logger, "bootstrap finished", attrs...)
	case report.VerdictPartial:
		run.Logger.Warn("bootstrap finished with failures", logging.Args(attrs...)...)
	default:
		run.Logger.Error("bootstrap failed", logging.Args(attrs...)...)
	}

	if err := rep.Render(opts.Stdout, report.ShouldColorize(opts.Stdout)); err != nil {
		run.Logger.Debug("render summary failed", logging.Error(err))
	}
	return rep.ExitCode(), nil
}
