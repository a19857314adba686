package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quickscript/internal/backend"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesColorEveryJobStatus(t *testing.T) {
	statuses := []string{
		statusPending,
		backend.StatusQueued,
		backend.StatusProcessing,
		backend.StatusComplete,
		backend.StatusFailed,
		statusUnknown,
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		seen := map[string]string{}
		for _, s := range statuses {
			c, ok := th.statusColors[s]
			if !ok || c == "" {
				t.Errorf("theme %s has no color for %q", name, s)
				continue
			}
			if prev, dup := seen[c]; dup {
				t.Errorf("theme %s uses %s for both %q and %q", name, c, prev, s)
			}
			seen[c] = s
		}
	}
}

func TestStatusColorFallsBackToMuted(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := th.StatusColor("no-such-status"); got != th.Muted {
		t.Fatalf("StatusColor fallback = %q, want %q", got, th.Muted)
	}
	got := th.StatusBadge("no-such-status").GetBackground()
	if got != lipgloss.Color(th.Muted) {
		t.Fatalf("StatusBadge fallback background = %v, want %v", got, th.Muted)
	}
	if got := th.StatusBadge(backend.StatusFailed).GetBackground(); got != lipgloss.Color(th.Danger) {
		t.Fatalf("StatusBadge(error) background = %v, want %v", got, th.Danger)
	}
}

func TestStylesOnSetsBackground(t *testing.T) {
	th := GetTheme("Slate")

	plain := th.Styles()
	if _, ok := plain.Text.GetBackground().(lipgloss.NoColor); !ok {
		t.Fatalf("Styles().Text background = %v, want none", plain.Text.GetBackground())
	}

	on := th.StylesOn(th.Surface)
	if got := on.MutedText.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("StylesOn().MutedText background = %v, want %v", got, th.Surface)
	}
	if got := on.MutedText.GetForeground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("StylesOn().MutedText foreground = %v, want %v", got, th.Muted)
	}
}
