package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the table and the interactive view. RowStyle draws the
// integer convergents and ScaledStyle the scaled inputs under them.
// ApplyTheme rebuilds all of them.
var (
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	RowStyle      lipgloss.Style
	ScaledStyle   lipgloss.Style
	PivotStyle    lipgloss.Style
	DisabledStyle lipgloss.Style
	SelectedStyle lipgloss.Style
	StatusRunning lipgloss.Style
	StatusDone    lipgloss.Style
	ErrorStyle    lipgloss.Style
	MetricLabel   lipgloss.Style
	MetricValue   lipgloss.Style
	KeyHint       lipgloss.Style
	Subtle        lipgloss.Style
)

// ApplyTheme makes t the current theme.
func ApplyTheme(t Theme) {
	CurrentTheme = t

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Header)

	RowStyle = lipgloss.NewStyle().Foreground(t.Row)

	ScaledStyle = lipgloss.NewStyle().Foreground(t.Muted)

	PivotStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Pivot).
		Background(t.PivotBg)

	DisabledStyle = lipgloss.NewStyle().
		Foreground(t.Disabled).
		Strikethrough(true)

	SelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(t.Primary)

	StatusRunning = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Running)

	StatusDone = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Done)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Error)

	MetricLabel = lipgloss.NewStyle().Foreground(t.Label)

	MetricValue = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(t.Muted).
		Italic(true)

	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
}

// Separator draws a decorated horizontal rule.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
