package tui

import (
	"github.com/charmbracelet/bubbles/key"

	pkgtui "github.com/mistakeknot/milgrim/pkg/tui"
)

// KeyMap extends the shared bindings with the diff editing keys.
type KeyMap struct {
	pkgtui.CommonKeys

	Delete   key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Visual   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func NewKeyMap() KeyMap {
	return KeyMap{
		CommonKeys: pkgtui.NewCommonKeys(),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d/x", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Visual: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "visual select"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "page down"),
		),
	}
}

func (k KeyMap) helpExtras() []pkgtui.HelpBinding {
	return []pkgtui.HelpBinding{
		pkgtui.HelpBindingFromKey(k.Delete),
		pkgtui.HelpBindingFromKey(k.Undo),
		pkgtui.HelpBindingFromKey(k.Redo),
		pkgtui.HelpBindingFromKey(k.Visual),
	}
}
