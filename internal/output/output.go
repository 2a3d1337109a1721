// Package output prints styled status lines for the heron CLI.
//
// Styling comes from lipgloss and is dropped automatically when stdout is
// not a terminal, so piped output stays free of escape sequences.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	verboseMode bool
	plain       = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
)

var out io.Writer = os.Stdout

// SetVerbose enables or disables verbose output.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetWriter redirects output and disables styling. Used by tests and by
// commands that capture their output.
func SetWriter(w io.Writer) {
	out = w
	plain = true
}

func render(style lipgloss.Style, msg string) string {
	if plain {
		return msg
	}
	return style.Render(msg)
}

// Success prints a completed operation.
//
//	output.Success("Wrote heron.json")
func Success(msg string) {
	fmt.Fprintln(out, render(successStyle, "✔ "+msg))
}

// Error prints a failure that needs user attention.
func Error(msg string) {
	fmt.Fprintln(out, render(errorStyle, "✘ "+msg))
}

// Info prints a status update.
func Info(msg string) {
	fmt.Fprintln(out, render(infoStyle, "ℹ "+msg))
}

// Step prints an indented sub-item.
func Step(msg string) {
	fmt.Fprintln(out, render(stepStyle, "   "+msg))
}

// Header prints a section title.
func Header(msg string) {
	fmt.Fprintln(out, render(headerStyle, msg))
}

// Verbose prints msg only in verbose mode.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, render(stepStyle, "» "+msg))
	}
}

// Table prints rows as left-aligned columns.
func Table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, 0)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range rows {
		var b strings.Builder
		b.WriteString("   ")
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		fmt.Fprintln(out, b.String())
	}
}
