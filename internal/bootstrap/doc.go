// Package bootstrap sequences a run: environment probe, optional restore
// point, tool installation, repository sync, dependency installation, and
// the final report.
//
// Execute owns process-level concerns (run ID, log file, run lock, signal
// handling). Flow holds the stage ordering and is what tests drive with fake
// hosts and executors.
package bootstrap
