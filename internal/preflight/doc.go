// Package preflight implements the environment probe that gates a bootstrap
// run.
//
// Six checks run in fixed order and never short-circuit, so the operator sees
// every problem at once:
//   - Administrator: the process token is in BUILTIN\Administrators.
//   - OS version: the Windows build meets the winget minimum.
//   - PowerShell version: the shell reports a supported major version.
//   - Network: the probe host answers an ICMP echo.
//   - Disk space: the system volume has enough free bytes.
//   - Execution policy: scripts may run (advisory only).
//
// Every check except execution policy is hard: a FAIL halts the run before
// anything on the machine changes. Blocking and BlockingError interpret the
// results for the caller.
package preflight
