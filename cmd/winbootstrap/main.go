package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"winbootstrap/internal/report"
	"winbootstrap/internal/system"
)

func main() {
	system.EnableVirtualTerminal()
	os.Exit(run(newRootCommand()))
}

func run(cmd interface{ Execute() error }) int {
	err := cmd.Execute()
	if err == nil {
		return report.ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	return report.ExitFailed
}

// exitError carries a process status out of a command whose output has
// already explained the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
