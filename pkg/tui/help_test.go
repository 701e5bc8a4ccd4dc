package tui

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestHelpOverlayToggle(t *testing.T) {
	h := NewHelpOverlay()
	if h.Visible {
		t.Fatalf("overlay should start hidden")
	}
	h.Toggle()
	if !h.Visible {
		t.Fatalf("toggle should show the overlay")
	}
}

func TestHelpOverlayRender(t *testing.T) {
	h := NewHelpOverlay()
	if h.Render(NewCommonKeys(), nil, 80) != "" {
		t.Fatalf("hidden overlay renders nothing")
	}
	h.Toggle()
	out := plain(h.Render(NewCommonKeys(), []HelpBinding{{Key: "d", Description: "delete"}}, 80))
	if !strings.Contains(out, "Keyboard Shortcuts") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "delete") {
		t.Fatalf("missing extra binding: %q", out)
	}
}

func TestHandleCommonQuit(t *testing.T) {
	keys := NewCommonKeys()
	cmd := HandleCommon(tea.KeyMsg{Type: tea.KeyCtrlC}, keys)
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if HandleCommon(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")}, keys) != nil {
		t.Fatalf("unbound key should pass through")
	}
}
