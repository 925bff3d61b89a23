package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzus/teleterm/internal/keymap"
)

// chordFromKey converts a terminal key event into a keymap chord. Pastes
// and runes read together in one event are text, not chords.
func chordFromKey(msg tea.KeyMsg) (keymap.Chord, bool) {
	if msg.Paste {
		return keymap.Chord{}, false
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) != 1 {
		return keymap.Chord{}, false
	}
	c, err := keymap.ParseChord(msg.String())
	if err != nil {
		return keymap.Chord{}, false
	}
	return c, true
}
