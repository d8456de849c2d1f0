package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs external commands.
// Implementations must be safe for concurrent use.
type Executor interface {
	// Run executes name with args in dir (the current directory when empty)
	// and returns captured output. A non-zero exit is reported as an error.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// DefaultExecutor uses exec.CommandContext and captures stdout/stderr.
// It does not invoke a shell; args are passed directly.
type DefaultExecutor struct{}

func (DefaultExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = dir
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		return outBuf.Bytes(), errBuf.Bytes(), &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: code,
			Stderr:   tail(errBuf.String()),
			Err:      err,
		}
	}
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// CommandError describes a failed invocation. ExitCode is -1 when the
// process never started or was killed.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("exec %s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode extracts the process exit code from err, or -1 when the process
// never ran or was killed.
func ExitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// FirstLine returns the first non-empty trimmed line of out.
func FirstLine(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// tail keeps the last few lines of stderr; installers can be very chatty.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, " | ")
}
