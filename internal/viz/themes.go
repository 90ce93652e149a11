package viz

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var ErrUnknownTheme = errors.New("viz: unknown theme")

// Theme is the palette the table and status line are drawn with. Primary
// colors the title and the selected input column.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Pivot    lipgloss.Color
	PivotBg  lipgloss.Color
	Header   lipgloss.Color
	Row      lipgloss.Color
	Muted    lipgloss.Color
	Disabled lipgloss.Color
	Label    lipgloss.Color
	Running  lipgloss.Color
	Done     lipgloss.Color
	Error    lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Primary:  lipgloss.Color("#00ffff"),
		Pivot:    lipgloss.Color("#ff00ff"),
		PivotBg:  lipgloss.Color("#1a001a"),
		Header:   lipgloss.Color("#ffffff"),
		Row:      lipgloss.Color("252"),
		Muted:    lipgloss.Color("#666688"),
		Disabled: lipgloss.Color("238"),
		Label:    lipgloss.Color("#888899"),
		Running:  lipgloss.Color("#00ff88"),
		Done:     lipgloss.Color("#ffaa00"),
		Error:    lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#88ff88"),
		Pivot:    lipgloss.Color("#001100"),
		PivotBg:  lipgloss.Color("#00ff00"),
		Header:   lipgloss.Color("#00ff00"),
		Row:      lipgloss.Color("#00cc00"),
		Muted:    lipgloss.Color("#007700"),
		Disabled: lipgloss.Color("#004400"),
		Label:    lipgloss.Color("#00aa00"),
		Running:  lipgloss.Color("#88ff88"),
		Done:     lipgloss.Color("#ffff00"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Pivot:    lipgloss.Color("#0088ff"),
		PivotBg:  lipgloss.Color("#000000"),
		Header:   lipgloss.Color("#ffffff"),
		Row:      lipgloss.Color("#cccccc"),
		Muted:    lipgloss.Color("#888888"),
		Disabled: lipgloss.Color("#444444"),
		Label:    lipgloss.Color("#888888"),
		Running:  lipgloss.Color("#cccccc"),
		Done:     lipgloss.Color("#ffffff"),
		Error:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeMinimal}

	CurrentTheme = ThemeNeon
)

func init() {
	ApplyTheme(ThemeNeon)
}

// GetTheme returns a theme by name.
func GetTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTheme, name, ThemeNames())
}

// SetTheme applies the named theme.
func SetTheme(name string) error {
	t, err := GetTheme(name)
	if err != nil {
		return err
	}
	ApplyTheme(t)
	return nil
}

// NextTheme applies the theme after the current one, wrapping around.
func NextTheme() Theme {
	next := Themes[0]
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			next = Themes[(i+1)%len(Themes)]
			break
		}
	}
	ApplyTheme(next)
	return next
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
