package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestChordFromKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{name: "rune", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, want: "j", ok: true},
		{name: "upper", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Q'}}, want: "shift+q", ok: true},
		{name: "alt digit", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true}, want: "alt+1", ok: true},
		{name: "ctrl", msg: tea.KeyMsg{Type: tea.KeyCtrlF}, want: "ctrl+f", ok: true},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: "enter", ok: true},
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: "esc", ok: true},
		{name: "space", msg: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, want: "space", ok: true},
		{name: "alt arrow", msg: tea.KeyMsg{Type: tea.KeyRight, Alt: true}, want: "alt+right", ok: true},
		{name: "backtab", msg: tea.KeyMsg{Type: tea.KeyShiftTab}, want: "shift+tab", ok: true},
		{name: "paste", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello"), Paste: true}},
		{name: "composed", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("가나")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := chordFromKey(tt.msg)
			if ok != tt.ok {
				t.Fatalf("chordFromKey(%q) ok = %v, want %v", tt.msg.String(), ok, tt.ok)
			}
			if ok && c.String() != tt.want {
				t.Errorf("chordFromKey(%q) = %q, want %q", tt.msg.String(), c.String(), tt.want)
			}
		})
	}
}
