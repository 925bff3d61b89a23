package search

import "github.com/guzus/teleterm/internal/focus"

// Panel is the list a session searches.
type Panel int

const (
	Off Panel = iota
	Chats
	Messages
)

func (p Panel) String() string {
	switch p {
	case Chats:
		return "chats"
	case Messages:
		return "messages"
	default:
		return "off"
	}
}

// Focus is the focus target that owns the panel's list.
func (p Panel) Focus() focus.Target {
	switch p {
	case Chats:
		return focus.ChatList
	case Messages:
		return focus.Chat
	default:
		return focus.None
	}
}

// PanelFor is the panel whose search belongs to focus target t.
func PanelFor(t focus.Target) Panel {
	switch t {
	case focus.Chat, focus.Prompt:
		return Messages
	default:
		return Chats
	}
}

// Controller holds at most one active session, over either chats (C ids)
// or messages (M ids).
type Controller[C, M comparable] struct {
	chats    *Session[C]
	messages *Session[M]
}

// Active reports which panel is being searched.
func (c *Controller[C, M]) Active() Panel {
	switch {
	case c.chats != nil:
		return Chats
	case c.messages != nil:
		return Messages
	default:
		return Off
	}
}

// SmartTarget picks the panel a context-aware activation should search.
// With a session already running it is the other panel; otherwise the
// panel that belongs to the current focus.
func (c *Controller[C, M]) SmartTarget(current focus.Target) Panel {
	switch c.Active() {
	case Chats:
		return Messages
	case Messages:
		return Chats
	}
	return PanelFor(current)
}

// SearchChats starts a chat-list session, discarding any other session.
func (c *Controller[C, M]) SearchChats(base []Entry[C], seed C, hasSeed bool) *Session[C] {
	c.Discard()
	c.chats = NewSession(base, seed, hasSeed)
	return c.chats
}

// SearchMessages starts a message session, discarding any other session.
func (c *Controller[C, M]) SearchMessages(base []Entry[M], seed M, hasSeed bool) *Session[M] {
	c.Discard()
	c.messages = NewSession(base, seed, hasSeed)
	return c.messages
}

// Chats returns the chat-list session or nil.
func (c *Controller[C, M]) Chats() *Session[C] { return c.chats }

// Messages returns the message session or nil.
func (c *Controller[C, M]) Messages() *Session[M] { return c.messages }

// Discard ends the active session without reading its cursor.
func (c *Controller[C, M]) Discard() {
	c.chats = nil
	c.messages = nil
}
