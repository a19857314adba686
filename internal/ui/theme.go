package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quickscript/internal/backend"
)

// palette is the set of swatches a theme is derived from. Backgrounds run
// from darkest (base) to lightest (focus).
type palette struct {
	base, panel, raised, focus string
	selection, selectionFg     string
	edge                       string
	fg, dim, faint             string
	blue, green, yellow, red   string
	cyan                       string
}

var palettes = map[string]palette{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		base:        "#131a24",
		panel:       "#192330",
		raised:      "#212e3f",
		focus:       "#29394f",
		selection:   "#2b3b51",
		selectionFg: "#cdcecf",
		edge:        "#39506d",
		fg:          "#cdcecf",
		dim:         "#738091",
		faint:       "#71839b",
		blue:        "#719cd6",
		green:       "#81b29a",
		yellow:      "#dbc074",
		red:         "#c94f6d",
		cyan:        "#63cdcf",
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		base:        "#16161D",
		panel:       "#1F1F28",
		raised:      "#2A2A37",
		focus:       "#2A2A37",
		selection:   "#2D4F67",
		selectionFg: "#DCD7BA",
		edge:        "#54546D",
		fg:          "#DCD7BA",
		dim:         "#C8C093",
		faint:       "#727169",
		blue:        "#7E9CD8",
		green:       "#98BB6C",
		yellow:      "#E6C384",
		red:         "#E46876",
		cyan:        "#7FB4CA",
	},
	// Tailwind slate and sky
	"Slate": {
		base:        "#020617",
		panel:       "#0f172a",
		raised:      "#1e293b",
		focus:       "#283548",
		selection:   "#0284c7",
		selectionFg: "#f8fafc",
		edge:        "#334155",
		fg:          "#f1f5f9",
		dim:         "#94a3b8",
		faint:       "#64748b",
		blue:        "#38bdf8",
		green:       "#22c55e",
		yellow:      "#f59e0b",
		red:         "#ef4444",
		cyan:        "#06b6d4",
	},
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// Theme holds the colors the views draw with.
type Theme struct {
	Name string

	Background    string // modal backdrop, text on highlights
	Surface       string // header, command bar, footer
	SurfaceAlt    string // unfocused panes
	FocusBg       string // focused pane
	SelectionBg   string
	SelectionText string
	Border        string
	BorderFocus   string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	statusColors map[string]string
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name:          name,
		Background:    p.base,
		Surface:       p.panel,
		SurfaceAlt:    p.raised,
		FocusBg:       p.focus,
		SelectionBg:   p.selection,
		SelectionText: p.selectionFg,
		Border:        p.edge,
		BorderFocus:   p.blue,
		Text:          p.fg,
		Muted:         p.dim,
		Faint:         p.faint,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
		statusColors: map[string]string{
			statusPending:            p.faint,
			backend.StatusQueued:     p.dim,
			backend.StatusProcessing: p.blue,
			backend.StatusComplete:   p.green,
			backend.StatusFailed:     p.red,
			statusUnknown:            p.yellow,
		},
	}
}

// GetTheme returns a theme by name, Nightfox when the name is unknown.
func GetTheme(name string) Theme {
	p, ok := palettes[name]
	if !ok {
		name = themeOrder[0]
		p = palettes[name]
	}
	return newTheme(name, p)
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// StatusColor returns the badge color for a job status.
func (t Theme) StatusColor(status string) string {
	if c, ok := t.statusColors[status]; ok {
		return c
	}
	return t.Muted
}

// StatusBadge renders status as a filled label.
func (t Theme) StatusBadge(status string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Background)).
		Background(lipgloss.Color(t.StatusColor(status))).
		Padding(0, 1)
}

// Styles are the text styles shared by the views.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
}

// Styles returns the theme's text styles with no background set.
func (t Theme) Styles() Styles {
	return t.StylesOn("")
}

// StylesOn returns the theme's text styles drawn on bg.
func (t Theme) StylesOn(bg string) Styles {
	fg := func(color string) lipgloss.Style {
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		if bg != "" {
			s = s.Background(lipgloss.Color(bg))
		}
		return s
	}
	bar := func(color string) lipgloss.Style {
		return fg(color).Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      bar(t.Text),
		Footer:      bar(t.Muted),
		Logo:        fg(t.Accent).Bold(true),
	}
}
