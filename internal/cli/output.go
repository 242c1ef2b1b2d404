package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// useColor reports whether styled output should be emitted.
func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func styled(style lipgloss.Style, s string) string {
	if !useColor() {
		return s
	}
	return style.Render(s)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusGlyph maps a resource status to a one-character marker.
func statusGlyph(status string) string {
	switch status {
	case "complete":
		return styled(successStyle, "✓")
	case "in_progress":
		return styled(warnStyle, "◐")
	case "skipped":
		return styled(dimStyle, "−")
	default:
		return "○"
	}
}

func printSuccess(format string, args ...any) {
	fmt.Println(styled(successStyle, fmt.Sprintf(format, args...)))
}
