// Package execx runs the external programs a bootstrap drives: powershell,
// package managers, uv, git, and ansible-galaxy.
//
// Everything that shells out goes through the Executor interface so tests can
// replace it with FakeExecutor and assert the exact command lines issued.
package execx
