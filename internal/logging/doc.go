// Package logging assembles the slog loggers used by a bootstrap run.
//
// A run writes every record twice: once to the operator's console, colored
// per level when attached to a terminal, and once to a per-run log file in
// the bracketed `[timestamp] [LEVEL] message key=value` layout that support
// staff grep through after the fact. Both outputs share one record stream via
// a tee handler, and every record carries the run_id of the session.
//
// The package also defines LevelSuccess, a level between INFO and WARN used
// to mark completed milestones, and a no-op logger for tests and wiring code
// that cannot fail.
package logging
