// Package config loads, normalizes, and validates winbootstrap configuration.
//
// A configuration file is optional: every knob has a default that matches the
// behaviour of a bare `winbootstrap` invocation, so the TOML file only exists
// to point the run at a different repository, relax probe thresholds in a lab,
// or move the log directory. Paths are expanded (tilde and environment
// variables) before validation so downstream packages receive absolute paths.
//
// Always obtain settings through this package; the workflow treats the
// returned Config as immutable for the duration of a run.
package config
