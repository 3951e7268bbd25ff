package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestByName(t *testing.T) {
	if ByName("dark").Name != "dark" {
		t.Fatal("expected dark theme")
	}
	if ByName(" DEFAULT ").Name != "default" {
		t.Fatal("expected default theme")
	}
	if ByName("unknown").Name != "default" {
		t.Fatal("expected fallback to default")
	}
}

func TestThemesStyleOutput(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	for _, th := range []Theme{Default(), Dark()} {
		if got := th.StoryTitle.Render("Title"); !strings.Contains(got, "\x1b[") {
			t.Fatalf("%s: expected styled title, got %q", th.Name, got)
		}
		if got := th.StateWarn.Render("error"); !strings.Contains(got, "\x1b[") {
			t.Fatalf("%s: expected styled warning, got %q", th.Name, got)
		}
	}
}

func TestRenderActiveLine(t *testing.T) {
	th := Default()
	if got := th.RenderActiveLine(false, "plain"); got != "plain" {
		t.Fatalf("inactive line should be untouched, got %q", got)
	}
	if got := th.RenderActiveLine(true, "active"); !strings.Contains(got, "active") {
		t.Fatalf("active line lost its text: %q", got)
	}
}
