package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"winbootstrap/internal/config"
)

// RunLogPattern matches the per-run log files written by NewRun.
const RunLogPattern = "bootstrap-*.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives operator-facing output; nil means os.Stdout.
	Console io.Writer
	// Color forces ANSI level colors on or off. Nil detects a terminal.
	Color *bool
	// FilePath, when set, receives every record in the bracketed file layout.
	FilePath string
	RunID    string
}

// New constructs a slog logger using the provided options. The returned
// closer releases the log file and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(opts.Level))

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	var consoleHandler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		color := isTerminal(console)
		if opts.Color != nil {
			color = *opts.Color
		}
		consoleHandler = newLineHandler(console, levelVar, consoleLayout(color), FieldRunID, FieldEventType)
	case "json":
		consoleHandler = newJSONHandler(console, levelVar)
	default:
		return nil, nopCloser{}, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	var fileHandler slog.Handler
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, closer, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file %s: %w", path, err)
		}
		closer = file
		// The file always records debug detail regardless of the console level.
		fileHandler = newLineHandler(file, slog.LevelDebug, fileLayout)
	}

	handler := newRunIDHandler(newFanoutHandler(consoleHandler, fileHandler), opts.RunID)
	return slog.New(handler), closer, nil
}

// Run is a logger bound to one bootstrap run and its log file.
type Run struct {
	Logger  *slog.Logger
	RunID   string
	LogPath string
	closer  io.Closer
}

// Close flushes and releases the run log file.
func (r *Run) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

const (
	runLogPrefix = "bootstrap-"
	runLogSuffix = ".log"
	runLogStamp  = "20060102-150405"
)

// RunLogName returns the file name of the log for a run started at ts.
func RunLogName(ts time.Time) string {
	return runLogPrefix + ts.Format(runLogStamp) + runLogSuffix
}

// ParseRunLogName extracts the local start time from a RunLogName result.
func ParseRunLogName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, runLogPrefix) || !strings.HasSuffix(name, runLogSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, runLogPrefix), runLogSuffix)
	ts, err := time.ParseInLocation(runLogStamp, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// NewRun creates the per-run logger described by cfg, pruning logs older than
// the configured retention first. console may be nil for os.Stdout.
func NewRun(cfg *config.Config, runID string, startedAt time.Time, console io.Writer) (*Run, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logPath := filepath.Join(cfg.Paths.LogDir, RunLogName(startedAt))
	logger, closer, err := New(Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  console,
		FilePath: logPath,
		RunID:    runID,
	})
	if err != nil {
		return nil, err
	}
	PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)
	return &Run{Logger: logger, RunID: runID, LogPath: logPath, closer: closer}, nil
}

func newJSONHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				if level, ok := attr.Value.Any().(slog.Level); ok {
					attr.Value = slog.StringValue(strings.ToLower(levelLabel(level)))
				}
			}
			return attr
		},
	})
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
