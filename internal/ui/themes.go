package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the ANSI escape codes used for plain-text output. An empty
// field disables that formatting.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Bold      string
	Underline string
	Reset     string
}

// Palette holds the lipgloss colors of the scenario report.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

// shades are xterm 256-color indexes. Both the ANSI theme and the lipgloss
// palette of a color scheme are derived from them, so they cannot drift.
type shades struct {
	accent, dim, success, warning, failure int
}

var (
	darkShades  = shades{accent: 39, dim: 245, success: 82, warning: 220, failure: 196}
	lightShades = shades{accent: 27, dim: 240, success: 28, warning: 130, failure: 124}
)

func fg(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }

func (s shades) theme(name string) Theme {
	return Theme{
		Name:      name,
		Primary:   fg(s.accent),
		Secondary: fg(s.dim),
		Success:   fg(s.success),
		Warning:   fg(s.warning),
		Error:     fg(s.failure),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

func (s shades) palette() Palette {
	c := func(n int) lipgloss.TerminalColor { return lipgloss.Color(fmt.Sprint(n)) }
	return Palette{Accent: c(s.accent), Success: c(s.success), Error: c(s.failure), Dim: c(s.dim)}
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = darkShades.theme("dark")
	// LightTheme suits light terminal backgrounds.
	LightTheme = lightShades.theme("light")
	// NoColorTheme is selected by -no-color or NO_COLOR.
	NoColorTheme = Theme{Name: "none"}

	DarkPalette    = darkShades.palette()
	LightPalette   = lightShades.palette()
	NoColorPalette = Palette{
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ReportStyles are the lipgloss styles of the scenario report.
type ReportStyles struct {
	Title lipgloss.Style
	Pass  lipgloss.Style
	Fail  lipgloss.Style
	Dim   lipgloss.Style
}

// GetCurrentPalette returns the palette of the active theme.
func GetCurrentPalette() Palette {
	switch GetCurrentTheme().Name {
	case NoColorTheme.Name:
		return NoColorPalette
	case LightTheme.Name:
		return LightPalette
	}
	return DarkPalette
}

// GetReportStyles builds the report styles from the current palette. Without
// colors the styles carry no attributes, so rendered text is unchanged.
func GetReportStyles() ReportStyles {
	p := GetCurrentPalette()
	if p == NoColorPalette {
		plain := lipgloss.NewStyle()
		return ReportStyles{Title: plain, Pass: plain, Fail: plain, Dim: plain}
	}
	return ReportStyles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Pass:  lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		Dim:   lipgloss.NewStyle().Foreground(p.Dim),
	}
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select the dark theme.
func SetTheme(name string) {
	t := DarkTheme
	switch name {
	case LightTheme.Name:
		t = LightTheme
	case NoColorTheme.Name:
		t = NoColorTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the startup theme. Colors are off when noColor is set or
// when NO_COLOR is present in the environment (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
