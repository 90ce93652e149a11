package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/convergent/internal/session"
)

// TableOptions controls RenderTable. Selected is the highlighted input
// column, or -1 for none.
type TableOptions struct {
	Selected int
	// Last limits output to the most recent rows; 0 shows all.
	Last int
}

// RenderTable draws the typed inputs, then for every convergent its integer
// row and, beneath it, the input values scaled to match.
func RenderTable(s *session.Session, opts TableOptions) string {
	in := s.Input()
	settings := s.Settings()
	n := s.NumOutputs()

	first := 0
	if opts.Last > 0 && n > opts.Last {
		first = n - opts.Last
	}

	header := make([]string, len(in.Values))
	copy(header, in.Values)
	outputs := s.Outputs()
	rows := make([][]string, 0, 2*(n-first))
	for i := first; i < n; i++ {
		rows = append(rows, formatInts(outputs[i]), formatScaled(s.Scaled(i), settings.OutputPrecision))
	}

	width := columnWidth(header, rows)
	// lipgloss counts padding inside the width
	cell := lipgloss.NewStyle().Width(width + 2).Align(lipgloss.Right).PaddingLeft(2)

	var b strings.Builder
	for j, v := range header {
		style := HeaderStyle
		switch {
		case j == opts.Selected:
			style = SelectedStyle
		case !in.Mask[j]:
			style = DisabledStyle
		}
		b.WriteString(cell.Render(style.Render(v)))
	}
	b.WriteString("\n")
	b.WriteString(Separator(len(header) * (width + 2)))
	b.WriteString("\n")

	for k, row := range rows {
		i := first + k/2
		primary := k%2 == 0
		for j, v := range row {
			style := ScaledStyle
			if primary {
				style = RowStyle
				if settings.ShowPivot && j == s.Pivot(i) {
					style = PivotStyle
				}
			}
			b.WriteString(cell.Render(style.Render(v)))
		}
		b.WriteString("\n")
	}

	if s.Finished() {
		b.WriteString(StatusDone.Render("done."))
		b.WriteString("\n")
	}
	return b.String()
}

func columnWidth(header []string, rows [][]string) int {
	width := 1
	for _, v := range header {
		width = max(width, lipgloss.Width(v))
	}
	for _, row := range rows {
		for _, v := range row {
			width = max(width, lipgloss.Width(v))
		}
	}
	return width
}

func formatInts(c []int64) []string {
	out := make([]string, len(c))
	for i, v := range c {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}

func formatScaled(v []float64, digits int) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = ToPrecision(x, digits)
	}
	return out
}

// ToPrecision formats v with exactly digits significant digits, keeping
// trailing zeros, and switches to exponent form when the integer part needs
// more digits than that.
func ToPrecision(v float64, digits int) string {
	if digits < 1 {
		digits = 1
	}
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', digits-1, 64)
	}

	exp := int(math.Floor(math.Log10(math.Abs(v))))
	// rounding can carry into the next power of ten
	if r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'e', digits-1, 64), 64); r != 0 {
		exp = int(math.Floor(math.Log10(math.Abs(r))))
	}
	if exp < -6 || exp >= digits {
		return strconv.FormatFloat(v, 'e', digits-1, 64)
	}
	return strconv.FormatFloat(v, 'f', digits-1-exp, 64)
}
