package focus

import "github.com/guzus/teleterm/internal/keymap"

// Target is the panel that receives panel-scoped actions.
type Target int

const (
	None Target = iota
	ChatList
	Chat
	Prompt
)

func (t Target) String() string {
	switch t {
	case ChatList:
		return "chat_list"
	case Chat:
		return "chat"
	case Prompt:
		return "prompt"
	default:
		return "none"
	}
}

// Scope is the keymap scope consulted while t has focus.
func (t Target) Scope() keymap.Scope {
	switch t {
	case ChatList:
		return keymap.ChatList
	case Chat:
		return keymap.Chat
	case Prompt:
		return keymap.Prompt
	default:
		return keymap.Global
	}
}

// Machine holds the current focus. Transitions to a target that cannot take
// focus are ignored.
type Machine struct {
	current  Target
	canFocus func(Target) bool
}

// NewMachine starts unfocused. canFocus may be nil, in which case every
// target is available.
func NewMachine(canFocus func(Target) bool) *Machine {
	return &Machine{canFocus: canFocus}
}

func (m *Machine) Current() Target { return m.current }

// Focus moves to t and reports whether focus changed.
func (m *Machine) Focus(t Target) bool {
	if t == None {
		return m.Unfocus()
	}
	if m.canFocus != nil && !m.canFocus(t) {
		return false
	}
	if m.current == t {
		return false
	}
	m.current = t
	return true
}

// Unfocus returns to None.
func (m *Machine) Unfocus() bool {
	if m.current == None {
		return false
	}
	m.current = None
	return true
}
