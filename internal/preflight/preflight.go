package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
	"winbootstrap/internal/system"
)

// Status is the verdict of a single check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusWarn Status = "WARN"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Status  Status
	Message string
	// Hard checks halt the run when they fail.
	Hard bool
}

// Passed reports whether the check did not fail. WARN counts as passed.
func (r Result) Passed() bool {
	return r.Status != StatusFail
}

// Host is the subset of system facts the probe reads.
type Host interface {
	IsElevated() (bool, error)
	OSVersion() (system.OSVersion, error)
	SystemVolume() string
	FreeBytes(path string) (uint64, error)
}

// Option configures a Probe.
type Option func(*Probe)

// WithLogger routes check outcomes to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Probe) {
		if logger != nil {
			p.logger = logging.NewComponentLogger(logger, "probe")
		}
	}
}

// WithPlatform overrides the GOOS used to pick ping flags.
func WithPlatform(goos string) Option {
	return func(p *Probe) {
		if goos != "" {
			p.goos = goos
		}
	}
}

// shellQueryTimeout bounds each PowerShell query. A cold powershell.exe start
// takes a few seconds; a minute means it is hung.
const shellQueryTimeout = time.Minute

// Probe runs the environment checks.
type Probe struct {
	settings       config.Probe
	minFreeBytes   uint64
	networkTimeout time.Duration
	queryTimeout   time.Duration
	host           Host
	exec           execx.Executor
	logger         *slog.Logger
	goos           string
}

// New constructs a probe from the probe section of cfg.
func New(cfg *config.Config, host Host, runner execx.Executor, opts ...Option) *Probe {
	p := &Probe{
		settings:       cfg.Probe,
		minFreeBytes:   cfg.MinFreeBytes(),
		networkTimeout: cfg.NetworkTimeout(),
		queryTimeout:   shellQueryTimeout,
		host:           host,
		exec:           runner,
		logger:         logging.NewNop(),
		goos:           runtime.GOOS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all six checks in order. It never short-circuits: a failed
// check does not prevent the next one from running.
func (p *Probe) Run(ctx context.Context) []Result {
	results := []Result{
		p.CheckAdministrator(),
		p.CheckOSVersion(),
		p.CheckShellVersion(ctx),
		p.CheckNetwork(ctx),
		p.CheckDiskSpace(),
		p.CheckExecutionPolicy(ctx),
	}
	for _, result := range results {
		p.logResult(result)
	}
	return results
}

func (p *Probe) logResult(result Result) {
	attrs := []logging.Attr{
		logging.String(logging.FieldCheck, result.Name),
		logging.String("status", string(result.Status)),
		logging.String("detail", result.Message),
	}
	switch result.Status {
	case StatusPass:
		p.logger.Info("check passed", logging.Args(attrs...)...)
	case StatusWarn:
		logging.WarnWithContext(p.logger, "check raised a warning", "probe_check_warning",
			append(attrs, logging.String(logging.FieldImpact, "bootstrap continues; some scripts may be blocked"))...)
	default:
		impact := "advisory only"
		if result.Hard {
			impact = "bootstrap halts before changing the machine"
		}
		logging.ErrorWithContext(p.logger, "check failed", "probe_check_failed",
			append(attrs, logging.String(logging.FieldImpact, impact))...)
	}
}

// Blocking returns the failed hard checks.
func Blocking(results []Result) []Result {
	var blocking []Result
	for _, result := range results {
		if result.Hard && result.Status == StatusFail {
			blocking = append(blocking, result)
		}
	}
	return blocking
}

// BlockingError aggregates the failed hard checks into one error, or nil when
// the run may proceed.
func BlockingError(results []Result) error {
	var merr *multierror.Error
	for _, result := range Blocking(results) {
		merr = multierror.Append(merr, fmt.Errorf("%s: %s", result.Name, result.Message))
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = func(errs []error) string {
		parts := make([]string, 0, len(errs))
		for _, err := range errs {
			parts = append(parts, err.Error())
		}
		noun := "check"
		if len(errs) != 1 {
			noun = "checks"
		}
		return fmt.Sprintf("%d blocking %s failed: %s", len(errs), noun, strings.Join(parts, "; "))
	}
	return merr.ErrorOrNil()
}
