package dispatch

import (
	"github.com/guzus/teleterm/internal/focus"
	"github.com/guzus/teleterm/internal/keymap"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/ordering"
	"github.com/guzus/teleterm/internal/search"
	"github.com/guzus/teleterm/internal/selection"
)

// ChatRow is one rendered chat-list line. Matched holds the rune offsets of
// the name that matched the search query.
type ChatRow struct {
	Chat    messaging.Chat
	Matched []int
}

// ChatsView is everything the chat-list panel needs to draw itself.
type ChatsView struct {
	Rows      []ChatRow
	Selected  int
	Searching bool
	Query     string
	Order     ordering.Strategy
}

type MessageRow struct {
	Message messaging.Message
	Matched []int
}

type MessagesView struct {
	Chat      messaging.Chat
	Open      bool
	Rows      []MessageRow
	Selected  int
	Searching bool
	Query     string
}

// Chats returns the chat list as it should be displayed: the search hits
// while a chat search runs, the ordered list otherwise. Selected is -1 when
// the selection does not resolve.
func (d *Dispatcher) Chats() ChatsView {
	chats := d.orderedChats()
	v := ChatsView{Selected: -1, Order: d.order}

	if s := d.search.Chats(); s != nil {
		v.Searching = true
		v.Query = s.Query()
		for _, h := range s.Hits() {
			if c, ok := messaging.FindChat(chats, h.ID); ok {
				v.Rows = append(v.Rows, ChatRow{Chat: c, Matched: h.Matched})
			}
		}
		if id, ok := s.Cursor(); ok {
			v.Selected, _ = selection.Resolve(id, rowChatIDs(v.Rows))
		}
		return v
	}

	v.Rows = make([]ChatRow, len(chats))
	for i, c := range chats {
		v.Rows[i] = ChatRow{Chat: c}
	}
	if pos, ok := d.chats.Position(chatIDs(chats)); ok {
		v.Selected = pos
	}
	return v
}

func rowChatIDs(rows []ChatRow) []messaging.ChatID {
	out := make([]messaging.ChatID, len(rows))
	for i, r := range rows {
		out[i] = r.Chat.ID
	}
	return out
}

// Messages returns the open chat's messages as they should be displayed.
func (d *Dispatcher) Messages() MessagesView {
	v := MessagesView{Selected: -1}
	if !d.hasOpen {
		return v
	}
	v.Open = true
	v.Chat, _ = messaging.FindChat(d.src.Chats(), d.open)
	msgs := d.src.Messages(d.open)

	if s := d.search.Messages(); s != nil {
		v.Searching = true
		v.Query = s.Query()
		for _, h := range s.Hits() {
			if m, ok := messaging.FindMessage(msgs, h.ID); ok {
				v.Rows = append(v.Rows, MessageRow{Message: m, Matched: h.Matched})
			}
		}
		if id, ok := s.Cursor(); ok {
			ids := make([]messaging.MessageID, len(v.Rows))
			for i, r := range v.Rows {
				ids[i] = r.Message.ID
			}
			v.Selected, _ = selection.Resolve(id, ids)
		}
		return v
	}

	v.Rows = make([]MessageRow, len(msgs))
	for i, m := range msgs {
		v.Rows[i] = MessageRow{Message: m}
	}
	if pos, ok := d.messages.Position(messageIDs(msgs)); ok {
		v.Selected = pos
	}
	return v
}

// Focus is the currently focused panel.
func (d *Dispatcher) Focus() focus.Target { return d.focus.Current() }

// SearchPanel reports which list, if any, is being searched.
func (d *Dispatcher) SearchPanel() search.Panel { return d.search.Active() }

// OpenChat returns the chat shown in the chat window.
func (d *Dispatcher) OpenChat() (messaging.ChatID, bool) { return d.open, d.hasOpen }

// PromptMode returns the mode and, for edit and reply, the target message.
func (d *Dispatcher) PromptMode() (PromptMode, messaging.Message) {
	if d.mode == Compose {
		return Compose, messaging.Message{}
	}
	m, _ := messaging.FindMessage(d.openMessages(), d.target)
	return d.mode, m
}

func (d *Dispatcher) Layout() Layout { return d.layout }

// GuideOpen reports whether the command guide overlay is shown.
func (d *Dispatcher) GuideOpen() bool { return d.guide }

// Guide lists the bindings reachable from the focused panel.
func (d *Dispatcher) Guide() []keymap.Binding {
	return d.table.Bindings(d.focus.Current().Scope())
}

// Pending is the incomplete key sequence typed so far.
func (d *Dispatcher) Pending() keymap.Sequence { return d.resolver.Buffered() }

// Table is the keymap the dispatcher resolves against.
func (d *Dispatcher) Table() *keymap.Table { return d.table }
