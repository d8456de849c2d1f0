package reposync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
)

// Action records what Sync did.
type Action string

const (
	ActionClone Action = "CLONE"
	ActionPull  Action = "PULL"
	ActionNone  Action = "NONE"
)

// State describes the local checkout after a sync.
type State struct {
	LocalPath string
	Present   bool
	Action    Action
	Head      string
	Branch    string
	Error     string
}

// Synced reports whether the last clone or pull succeeded.
func (s State) Synced() bool {
	return s.Present && s.Error == ""
}

// Host resolves commands on PATH.
type Host interface {
	LookPath(name string) (string, error)
}

// Syncer drives git against the target directory.
type Syncer struct {
	host    Host
	exec    execx.Executor
	branch  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSyncer builds a syncer for the repository section of cfg.
func NewSyncer(cfg *config.Config, host Host, runner execx.Executor, logger *slog.Logger) *Syncer {
	return &Syncer{
		host:    host,
		exec:    runner,
		branch:  cfg.Repository.Branch,
		timeout: cfg.InstallTimeout(),
		logger:  logging.NewComponentLogger(logger, "reposync"),
	}
}

// Sync clones remoteURL into localPath, or pulls when localPath exists.
// Failures are recorded in the returned State.
func (s *Syncer) Sync(ctx context.Context, remoteURL, localPath string) State {
	state := State{LocalPath: localPath, Action: ActionNone}
	logger := s.logger.With(logging.String("path", localPath))

	if _, err := s.host.LookPath("git"); err != nil {
		state.Error = fmt.Sprintf("git not available: %v", err)
		logging.WarnWithContext(logger, "repository sync skipped", "repo_sync_skipped",
			logging.String("reason", "git not installed"),
			logging.String(logging.FieldImpact, "repository and its dependencies will be missing"),
		)
		return state
	}

	_, statErr := os.Stat(localPath)
	switch {
	case statErr == nil:
		state.Action = ActionPull
		state.Present = true
		logger.Info("pulling repository", logging.String("branch", s.branch))
		if err := s.git(ctx, "-C", localPath, "pull", "origin", s.branch); err != nil {
			state.Error = err.Error()
			logging.WarnWithContext(logger, "repository pull failed", "repo_pull_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "resolve local changes or network issues and re-run"),
				logging.String(logging.FieldImpact, "existing checkout kept as-is"),
			)
			return state
		}
	case errors.Is(statErr, os.ErrNotExist):
		state.Action = ActionClone
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			state.Error = fmt.Sprintf("create parent directory: %v", err)
			logging.ErrorWithContext(logger, "repository clone failed", "repo_clone_failed", logging.Error(err))
			return state
		}
		logger.Info("cloning repository", logging.String("remote", remoteURL))
		if err := s.git(ctx, "clone", remoteURL, localPath); err != nil {
			state.Error = err.Error()
			logging.ErrorWithContext(logger, "repository clone failed", "repo_clone_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the remote URL and network access"),
				logging.String(logging.FieldImpact, "dependencies will not be installed"),
			)
			return state
		}
		state.Present = true
	default:
		state.Error = fmt.Sprintf("inspect target: %v", statErr)
		logging.ErrorWithContext(logger, "repository target unreadable", "repo_target_unreadable", logging.Error(statErr))
		return state
	}

	state.Head, state.Branch = s.inspect(localPath)
	logging.Success(logger, "repository synced",
		logging.String("action", string(state.Action)),
		logging.String("head", state.Head),
		logging.String("branch", state.Branch),
	)
	return state
}

func (s *Syncer) git(ctx context.Context, args ...string) error {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	_, _, err := s.exec.Run(runCtx, "", "git", args...)
	return err
}

// inspect reads HEAD with go-git. Failures are logged only.
func (s *Syncer) inspect(path string) (head, branch string) {
	head, branch, err := ReadHead(path)
	if err != nil {
		s.logger.Debug("read repository head failed", logging.String("path", path), logging.Error(err))
	}
	return head, branch
}

// ReadHead returns the HEAD commit hash and branch name of the repository at
// path. Branch is empty for a detached HEAD.
func ReadHead(path string) (string, string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", "", fmt.Errorf("open repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("read head: %w", err)
	}
	var branch string
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	return ref.Hash().String(), branch, nil
}
