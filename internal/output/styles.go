package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorCyan       = lipgloss.Color("14")
	ColorYellow     = lipgloss.Color("220")
	ColorGreenCheck = lipgloss.Color("10")
	ColorDimGray    = lipgloss.Color("240")
)

// Semantic styles
var (
	// StyleNoun styles icon names and paths.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSkip styles skip reasons worth a look.
	StyleSkip = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 1)
)

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// Row is one line of a summary.
type Row struct {
	Label string
	Value string
}

// FormatSummary renders labelled values in a bordered box under a bold title,
// with labels padded to a common width.
func FormatSummary(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
	}
	lines := []string{StyleSummary.Render(title)}
	for _, r := range rows {
		label := StyleDim.Render(r.Label + strings.Repeat(" ", width-len(r.Label)))
		lines = append(lines, label+"  "+StyleNoun.Render(r.Value))
	}
	return styleBox.Render(strings.Join(lines, "\n"))
}

// FormatEntry renders an inspect line: a name, a status and a detail.
func FormatEntry(name, status string, warn bool, detail string) string {
	st := StyleDim
	if warn {
		st = StyleSkip
	}
	line := StyleNoun.Render(fmt.Sprintf("%-32s", name)) + " " + st.Render(status)
	if detail != "" {
		line += "  " + StyleDim.Render(detail)
	}
	return line
}
