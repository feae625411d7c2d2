// Package prompt asks the user questions during interactive commands.
package prompt

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// NoInteractiveEnv disables every terminal prompt when set.
const NoInteractiveEnv = "ST_NO_INTERACTIVE"

// ErrInteractiveDisabled is returned when a prompt cannot be shown.
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled (no terminal or " + NoInteractiveEnv + " is set)")

// ErrCanceled is returned when the user aborts a prompt.
var ErrCanceled = errors.New("canceled")

// Prompter is the set of questions st asks.
type Prompter interface {
	// Text asks for a single line, returning def on empty input.
	Text(message, def string) (string, error)
	// Editor asks for multi-line text in the user's editor.
	Editor(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
	Select(message string, options []string, def string) (string, error)
	MultiSelect(message string, options []string) ([]string, error)
}

// Interactive reports whether prompts can be shown on this process's terminal.
func Interactive() bool {
	if os.Getenv(NoInteractiveEnv) != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
