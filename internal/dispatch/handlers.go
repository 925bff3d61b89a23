package dispatch

import (
	"github.com/guzus/teleterm/internal/action"
	"github.com/guzus/teleterm/internal/focus"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/ordering"
	"github.com/guzus/teleterm/internal/selection"
)

// Layout holds the resizable panel dimensions.
type Layout struct {
	// ChatListWidth is a percentage of the terminal width.
	ChatListWidth int
	// PromptHeight is in lines.
	PromptHeight int
}

const (
	MinChatListWidth = 10
	MaxChatListWidth = 60
	MinPromptHeight  = 1
	MaxPromptHeight  = 10

	chatListStep = 5
)

// DefaultLayout is used when nothing was configured or persisted.
var DefaultLayout = Layout{ChatListWidth: 30, PromptHeight: 1}

func (l Layout) clamp() Layout {
	if l.ChatListWidth == 0 {
		l.ChatListWidth = DefaultLayout.ChatListWidth
	}
	if l.PromptHeight == 0 {
		l.PromptHeight = DefaultLayout.PromptHeight
	}
	l.ChatListWidth = min(max(l.ChatListWidth, MinChatListWidth), MaxChatListWidth)
	l.PromptHeight = min(max(l.PromptHeight, MinPromptHeight), MaxPromptHeight)
	return l
}

func (d *Dispatcher) orderedChats() []messaging.Chat {
	return ordering.Apply(d.src.Chats(), d.order)
}

func chatIDs(chats []messaging.Chat) []messaging.ChatID {
	out := make([]messaging.ChatID, len(chats))
	for i, c := range chats {
		out[i] = c.ID
	}
	return out
}

func messageIDs(msgs []messaging.Message) []messaging.MessageID {
	out := make([]messaging.MessageID, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func (d *Dispatcher) openMessages() []messaging.Message {
	if !d.hasOpen {
		return nil
	}
	return d.src.Messages(d.open)
}

func (d *Dispatcher) chatListAction(a action.Action) Effects {
	switch a.Kind {
	case action.ChatListNext:
		d.chats.Next(chatIDs(d.orderedChats()))
	case action.ChatListPrevious:
		d.chats.Previous(chatIDs(d.orderedChats()))
	case action.ChatListUnselect:
		d.chats.Unselect()
	case action.ChatListOpen:
		return d.openSelected()
	case action.ChatListSort:
		d.order = ordering.Next(d.order)
		return Effects{Notice: "chats sorted " + d.order.Label()}
	}
	return Effects{}
}

func (d *Dispatcher) openSelected() Effects {
	id, ok := d.chats.Selected()
	if !ok {
		return Effects{}
	}
	if _, ok := selection.Resolve(id, chatIDs(d.src.Chats())); !ok {
		return Effects{}
	}
	return d.openChat(id)
}

func (d *Dispatcher) openChat(id messaging.ChatID) Effects {
	if !d.hasOpen || d.open != id {
		d.messages.Clear()
		d.resetMode()
	}
	d.open, d.hasOpen = id, true
	d.focus.Focus(focus.Prompt)
	return Effects{Requests: []messaging.Request{{Kind: messaging.OpenChat, Chat: id}}}
}

func (d *Dispatcher) selectedMessage() (messaging.Message, bool) {
	id, ok := d.messages.Selected()
	if !ok {
		return messaging.Message{}, false
	}
	return messaging.FindMessage(d.openMessages(), id)
}

func (d *Dispatcher) chatAction(a action.Action) Effects {
	switch a.Kind {
	case action.ChatWindowNext:
		d.messages.Next(messageIDs(d.openMessages()))
		return Effects{}
	case action.ChatWindowPrevious:
		d.messages.Previous(messageIDs(d.openMessages()))
		return Effects{}
	case action.ChatWindowUnselect:
		d.messages.Unselect()
		return Effects{}
	}

	m, ok := d.selectedMessage()
	if !ok {
		return Effects{}
	}
	switch a.Kind {
	case action.ChatWindowDeleteForMe, action.ChatWindowDeleteForEveryone:
		return Effects{Requests: []messaging.Request{{
			Kind:    messaging.Delete,
			Chat:    d.open,
			Message: m.ID,
			Revoke:  a.Kind == action.ChatWindowDeleteForEveryone,
		}}}
	case action.ChatWindowCopy:
		return Effects{Requests: []messaging.Request{{Kind: messaging.Copy, Chat: d.open, Message: m.ID, Text: m.Text}}}
	case action.ChatWindowEdit:
		if !m.Outgoing {
			return Effects{Notice: "only your own messages can be edited"}
		}
		d.mode, d.target = Editing, m.ID
		d.focus.Focus(focus.Prompt)
		text := m.Text
		return Effects{Prefill: &text}
	case action.ChatWindowReply:
		d.mode, d.target = Replying, m.ID
		d.focus.Focus(focus.Prompt)
	}
	return Effects{}
}

func (d *Dispatcher) promptAction(a action.Action) Effects {
	switch a.Kind {
	case action.PromptSend:
		return Effects{Submit: true}
	case action.PromptCancelMode:
		if d.mode == Compose {
			return Effects{}
		}
		wasEditing := d.mode == Editing
		d.resetMode()
		if wasEditing {
			empty := ""
			return Effects{Prefill: &empty}
		}
	}
	return Effects{}
}
