package output

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ConfigureColor picks the color profile for w. Color is disabled when w is
// not a terminal or NO_COLOR is set.
func ConfigureColor(w io.Writer) {
	f, ok := w.(*os.File)
	if os.Getenv("NO_COLOR") != "" || !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		SetColorEnabled(false)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(f).EnvColorProfile())
}

// SetColorEnabled forces colored output on or off.
func SetColorEnabled(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func colored(color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// ColorRed colors text red
func ColorRed(text string) string {
	return colored("1", text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return colored("3", text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return colored("6", text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return colored("8", text)
}

// ColorBranchName colors a branch name based on whether it's current
func ColorBranchName(name string, isCurrent bool) string {
	if isCurrent {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render(name + " (current)")
	}
	return colored("12", name)
}

// ColorNeedsRestack colors the "needs restack" text
func ColorNeedsRestack(text string) string {
	return ColorYellow(text)
}

// ColorPRNumber renders a pull request number as #N.
func ColorPRNumber(number uint64) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Render("#" + strconv.FormatUint(number, 10))
}
