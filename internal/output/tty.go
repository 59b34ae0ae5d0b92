package output

import (
	"os"

	"golang.org/x/term"
)

// forceNoTTY disables interactive rendering regardless of the terminal.
var forceNoTTY bool

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	if forceNoTTY {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTTY reports whether stdin is attached to a terminal, which is
// required for interactive prompts.
func IsInputTTY() bool {
	if forceNoTTY {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// DisableTTY makes IsTTY and IsInputTTY report false.
func DisableTTY() {
	forceNoTTY = true
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	if !IsTTY() {
		return fallback
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
