package bootstrap

import (
	"context"
	"log/slog"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/galaxy"
	"winbootstrap/internal/install"
	"winbootstrap/internal/logging"
	"winbootstrap/internal/preflight"
	"winbootstrap/internal/report"
	"winbootstrap/internal/reposync"
	"winbootstrap/internal/restore"
	"winbootstrap/internal/system"
)

// Flow runs the stages in order against one host.
type Flow struct {
	cfg     *config.Config
	host    system.Host
	exec    execx.Executor
	confirm restore.Confirmer
	goos    string
	logger  *slog.Logger
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithPlatform overrides the GOOS the probe assumes.
func WithPlatform(goos string) FlowOption {
	return func(f *Flow) {
		f.goos = goos
	}
}

// NewFlow wires the stages.
func NewFlow(cfg *config.Config, host system.Host, runner execx.Executor, confirm restore.Confirmer, logger *slog.Logger, opts ...FlowOption) *Flow {
	if logger == nil {
		logger = logging.NewNop()
	}
	f := &Flow{
		cfg:     cfg,
		host:    host,
		exec:    runner,
		confirm: confirm,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run executes every stage, recording outcomes in rep. A blocking probe
// failure halts before anything on the machine changes. Cancellation, either
// of ctx or at the restore point prompt, is checked before each mutating
// stage.
func (f *Flow) Run(ctx context.Context, rep *report.Report) {
	logger := logging.NewComponentLogger(f.logger, "bootstrap")

	target, targetErr := reposync.ResolveTargetDir(f.cfg, f.host)
	if targetErr == nil {
		logger.Info("repository target resolved", logging.String("path", target))
	}

	probe := preflight.New(f.cfg, f.host, f.exec, preflight.WithLogger(f.logger), preflight.WithPlatform(f.goos))
	rep.Checks = probe.Run(ctx)
	if err := preflight.BlockingError(rep.Checks); err != nil {
		rep.Halt(err.Error())
		logging.ErrorWithContext(logger, "bootstrap halted", "bootstrap_halted",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the failed checks and re-run"),
			logging.String(logging.FieldImpact, "no changes were made"),
		)
		return
	}

	if f.interrupted(ctx, rep, logger, "restore point") {
		return
	}
	rep.RestorePoint = restore.NewGuard(f.cfg, f.exec, f.confirm, f.logger).Run(ctx)
	if rep.RestorePoint == restore.OutcomeInterrupted {
		f.stop(rep, logger, "tool installation", context.Canceled)
		return
	}

	if f.interrupted(ctx, rep, logger, "tool installation") {
		return
	}
	rep.Tools = install.New(f.cfg, f.host, f.exec, f.logger).EnsureAll(ctx)

	if f.interrupted(ctx, rep, logger, "repository sync") {
		return
	}
	if targetErr != nil {
		state := reposync.State{Action: reposync.ActionNone, Error: targetErr.Error()}
		rep.Repo = &state
		logging.ErrorWithContext(logger, "repository target unresolved", "repo_target_unresolved",
			logging.Error(targetErr),
			logging.String(logging.FieldErrorHint, "set repository.local_path in the config file"),
		)
		return
	}
	state := reposync.NewSyncer(f.cfg, f.host, f.exec, f.logger).Sync(ctx, f.cfg.Repository.RemoteURL, target)
	rep.Repo = &state
	if !state.Synced() {
		logger.Info("dependency installation skipped; repository not synced")
		return
	}

	if f.interrupted(ctx, rep, logger, "dependency installation") {
		return
	}
	result := galaxy.NewMaterializer(f.cfg, f.host, f.exec, f.logger).Materialize(ctx, state.LocalPath)
	rep.Dependencies = &result
}

// interrupted records a stop before next when ctx is done.
func (f *Flow) interrupted(ctx context.Context, rep *report.Report, logger *slog.Logger, next string) bool {
	if err := ctx.Err(); err != nil {
		f.stop(rep, logger, next, err)
		return true
	}
	return false
}

func (f *Flow) stop(rep *report.Report, logger *slog.Logger, next string, cause error) {
	rep.Interrupt(next)
	logging.WarnWithContext(logger, "bootstrap interrupted", "bootstrap_interrupted",
		logging.String("next_stage", next),
		logging.Error(cause),
		logging.String(logging.FieldImpact, "remaining stages were not run"),
	)
}
