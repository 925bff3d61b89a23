package local

import (
	"sort"
	"time"

	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/store"
)

type snapshot struct {
	chats    map[messaging.ChatID]messaging.Chat
	messages map[messaging.MessageID]messaging.Message
	order    []messaging.MessageID
}

func take(st *store.Store) snapshot {
	s := snapshot{
		chats:    make(map[messaging.ChatID]messaging.Chat),
		messages: make(map[messaging.MessageID]messaging.Message),
	}
	for _, c := range st.Chats() {
		s.chats[c.ID] = c
		for _, m := range st.Messages(c.ID) {
			s.messages[m.ID] = m
			s.order = append(s.order, m.ID)
		}
	}
	return s
}

// diff lists the updates that turn old into next: message changes first,
// then chat summaries, then removed chats.
func diff(old, next snapshot) []messaging.Update {
	var out []messaging.Update

	deleted := make(map[messaging.ChatID][]messaging.MessageID)
	for id, m := range old.messages {
		if _, ok := next.messages[id]; ok {
			continue
		}
		if _, ok := next.chats[m.ChatID]; !ok {
			continue
		}
		deleted[m.ChatID] = append(deleted[m.ChatID], id)
	}
	for _, chat := range sortedChatIDs(deleted) {
		ids := deleted[chat]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = append(out, messaging.Update{Kind: messaging.MessagesDeleted, Chat: chat, Messages: ids})
	}

	for _, id := range next.order {
		m := next.messages[id]
		prev, ok := old.messages[id]
		switch {
		case !ok:
			out = append(out, messaging.Update{Kind: messaging.NewMessage, Chat: m.ChatID, Message: m})
		case prev.Text != m.Text || prev.Edited != m.Edited:
			out = append(out, messaging.Update{Kind: messaging.MessageEdited, Chat: m.ChatID, Message: m})
		}
	}

	for _, id := range sortedChatIDs(next.chats) {
		if prev, ok := old.chats[id]; !ok || !sameChat(prev, next.chats[id]) {
			out = append(out, messaging.Update{Kind: messaging.ChatUpdated, Chat: id})
		}
	}
	for _, id := range sortedChatIDs(old.chats) {
		if _, ok := next.chats[id]; !ok {
			out = append(out, messaging.Update{Kind: messaging.ChatRemoved, Chat: id})
		}
	}
	return out
}

// sameChat compares times with Equal since a reloaded file loses the
// monotonic clock reading.
func sameChat(a, b messaging.Chat) bool {
	if !a.LastActivity.Equal(b.LastActivity) {
		return false
	}
	a.LastActivity, b.LastActivity = time.Time{}, time.Time{}
	return a == b
}

func sortedChatIDs[V any](m map[messaging.ChatID]V) []messaging.ChatID {
	out := make([]messaging.ChatID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
