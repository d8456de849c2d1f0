package restore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned by a Confirmer when the operator aborted the
// prompt. It matches context.Canceled.
var ErrInterrupted = fmt.Errorf("prompt interrupted by operator: %w", context.Canceled)

// Confirmer asks the operator a yes/no question. An error matching
// context.Canceled means the operator wants the whole run stopped.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// StaticConfirmer answers every question with a fixed value.
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(context.Context, string) (bool, error) {
	return bool(s), nil
}

// TerminalConfirmer prompts on the controlling terminal. When stdin is not a
// terminal the answer is no, so unattended runs never block.
type TerminalConfirmer struct {
	// Accessible swaps the interactive widget for a plain line prompt.
	Accessible bool
}

func (c TerminalConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, nil
	}
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).WithAccessible(c.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		// The form holds the terminal in raw mode, so Ctrl-C arrives here as
		// a keypress rather than as SIGINT.
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrInterrupted
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, err
	}
	return answer, nil
}
