// Package keys contains keybinding definitions and the translation from
// terminal key messages to editor key events.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/vedit/internal/mode"
)

// KeyMap defines the non-character keys the editor understands.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Editing
	Enter     key.Binding
	Backspace key.Binding

	// General
	Escape key.Binding
	Tab    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "move right"),
		),

		// Editing
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new line / run command"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete back"),
		),

		// General
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "normal mode"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next buffer"),
		),
	}
}

// Editor is the active keymap.
var Editor = DefaultKeyMap()

// Translate converts a terminal key message into editor key events using
// Editor. A multi-rune message (paste, IME commit) yields one event per rune,
// with line breaks ("\n", "\r" or "\r\n") becoming a single Enter.
func Translate(msg tea.KeyMsg) []mode.Key {
	return Editor.Translate(msg)
}

// Translate converts msg using this keymap.
func (k KeyMap) Translate(msg tea.KeyMsg) []mode.Key {
	switch {
	case key.Matches(msg, k.Escape):
		return []mode.Key{{Kind: mode.KeyEscape}}
	case key.Matches(msg, k.Enter):
		return []mode.Key{{Kind: mode.KeyEnter}}
	case key.Matches(msg, k.Tab):
		return []mode.Key{{Kind: mode.KeyTab}}
	case key.Matches(msg, k.Backspace):
		return []mode.Key{{Kind: mode.KeyBackspace}}
	case key.Matches(msg, k.Up):
		return []mode.Key{{Kind: mode.KeyUp}}
	case key.Matches(msg, k.Down):
		return []mode.Key{{Kind: mode.KeyDown}}
	case key.Matches(msg, k.Left):
		return []mode.Key{{Kind: mode.KeyLeft}}
	case key.Matches(msg, k.Right):
		return []mode.Key{{Kind: mode.KeyRight}}
	}

	switch msg.Type {
	case tea.KeySpace:
		return []mode.Key{mode.RuneKey(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			break
		}
		return translateRunes(msg.Runes)
	}
	return []mode.Key{{Kind: mode.KeyUnknown}}
}

func translateRunes(runes []rune) []mode.Key {
	out := make([]mode.Key, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			out = append(out, mode.Key{Kind: mode.KeyEnter})
		case '\n':
			out = append(out, mode.Key{Kind: mode.KeyEnter})
		default:
			out = append(out, mode.RuneKey(r))
		}
	}
	return out
}
