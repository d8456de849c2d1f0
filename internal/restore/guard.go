package restore

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

// Outcome is the result of the restore point step.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeCreated Outcome = "created"
	OutcomeFailed  Outcome = "failed"

	// OutcomeInterrupted means the operator aborted at the prompt; nothing
	// after it may run.
	OutcomeInterrupted Outcome = "interrupted"
)

// Question is the prompt shown to the operator.
const Question = "Create a system restore point before making changes?"

// checkpointTimeout bounds Checkpoint-Computer, which can stall for minutes
// while Volume Shadow Copy spins up.
const checkpointTimeout = 10 * time.Minute

// Guard offers and creates the restore point.
type Guard struct {
	settings config.RestorePoint
	shell    string
	exec     execx.Executor
	confirm  Confirmer
	logger   *slog.Logger
}

// NewGuard builds a guard from cfg.
func NewGuard(cfg *config.Config, runner execx.Executor, confirm Confirmer, logger *slog.Logger) *Guard {
	return &Guard{
		settings: cfg.RestorePoint,
		shell:    cfg.Probe.Shell,
		exec:     runner,
		confirm:  confirm,
		logger:   logging.NewComponentLogger(logger, "restore"),
	}
}

// Run prompts and, on an affirmative answer, creates the checkpoint.
func (g *Guard) Run(ctx context.Context) Outcome {
	if !g.settings.Enabled {
		g.logger.Info("restore point disabled by configuration")
		return OutcomeSkipped
	}
	if g.confirm == nil {
		g.logger.Info("no confirmation provider; restore point skipped")
		return OutcomeSkipped
	}
	ok, err := g.confirm.Confirm(ctx, Question)
	if err == nil {
		err = ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logging.WarnWithContext(g.logger, "restore point prompt interrupted", "restore_prompt_interrupted",
			logging.Error(err),
			logging.String(logging.FieldImpact, "bootstrap stops before changing the machine"),
		)
		return OutcomeInterrupted
	}
	if err != nil {
		logging.WarnWithContext(g.logger, "restore point prompt failed; treating as no", "restore_prompt_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no restore point will be created"),
		)
		return OutcomeSkipped
	}
	if !ok {
		g.logger.Info("restore point declined")
		return OutcomeSkipped
	}

	runCtx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()
	g.logger.Info("creating restore point", logging.String("description", g.settings.Description))
	if _, _, err := g.exec.Run(runCtx, "", g.shell, CheckpointArgs(g.settings.Description)...); err != nil {
		logging.WarnWithContext(g.logger, "restore point creation failed", "restore_point_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "enable System Protection on the system drive or create the point manually"),
			logging.String(logging.FieldImpact, "bootstrap continues without a rollback checkpoint"),
		)
		return OutcomeFailed
	}
	logging.Success(g.logger, "restore point created", logging.String("description", g.settings.Description))
	return OutcomeCreated
}

// CheckpointArgs returns the PowerShell arguments that create a restore point
// named description.
func CheckpointArgs(description string) []string {
	quoted := "'" + strings.ReplaceAll(description, "'", "''") + "'"
	return []string{
		"-NoProfile",
		"-NonInteractive",
		"-Command",
		fmt.Sprintf("Checkpoint-Computer -Description %s -RestorePointType MODIFY_SETTINGS", quoted),
	}
}
