package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the canvas and side panel.
type Theme struct {
	Name   string
	Links  lipgloss.Color
	Header lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	Graph  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Links:  lipgloss.Color("#00ffff"),
		Header: lipgloss.Color("#ff00ff"),
		Accent: lipgloss.Color("#ffff00"),
		Muted:  lipgloss.Color("#666666"),
		Graph:  lipgloss.Color("#00ff88"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Links:  lipgloss.Color("#00ff00"), // Green phosphor
		Header: lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ffff00"),
		Muted:  lipgloss.Color("#005500"),
		Graph:  lipgloss.Color("#00cc00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Links:  lipgloss.Color("#ffffff"),
		Header: lipgloss.Color("#cccccc"),
		Accent: lipgloss.Color("#0088ff"),
		Muted:  lipgloss.Color("#888888"),
		Graph:  lipgloss.Color("#aaaaaa"),
	}

	// Default theme
	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
