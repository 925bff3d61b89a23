package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/guzus/teleterm/internal/messaging"
)

type data struct {
	NextChatID    int64               `json:"next_chat_id"`
	NextMessageID int64               `json:"next_message_id"`
	Chats         []messaging.Chat    `json:"chats"`
	Messages      []messaging.Message `json:"messages"`
}

// Store manages chats and their messages persisted to disk.
type Store struct {
	mu   sync.Mutex
	path string
	data data
	now  func() time.Time
}

// OpenPath loads (or creates) the store at a custom path.
func OpenPath(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

// Reload replaces the in-memory data with the file contents. A missing
// file yields an empty store.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	var d data
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("reading store: %w", err)
	default:
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parsing store: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d
	return nil
}

// Save persists the store to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	return nil
}

func (s *Store) chatIndex(id messaging.ChatID) int {
	for i := range s.data.Chats {
		if s.data.Chats[i].ID == id {
			return i
		}
	}
	return -1
}

// AddChat creates a new chat. Returns error if name already exists.
func (s *Store) AddChat(name string) (messaging.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.data.Chats {
		if strings.EqualFold(c.Name, name) {
			return messaging.Chat{}, fmt.Errorf("chat %q already exists", name)
		}
	}

	s.data.NextChatID++
	c := messaging.Chat{
		ID:           messaging.ChatID(s.data.NextChatID),
		Name:         name,
		LastActivity: s.now(),
	}
	s.data.Chats = append(s.data.Chats, c)
	return c, nil
}

// RemoveChat deletes a chat by name together with its messages.
func (s *Store) RemoveChat(name string) (messaging.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.data.Chats {
		if strings.EqualFold(c.Name, name) {
			s.data.Chats = append(s.data.Chats[:i], s.data.Chats[i+1:]...)
			kept := s.data.Messages[:0]
			for _, m := range s.data.Messages {
				if m.ChatID != c.ID {
					kept = append(kept, m)
				}
			}
			s.data.Messages = kept
			return c, nil
		}
	}
	return messaging.Chat{}, fmt.Errorf("chat %q: %w", name, messaging.ErrNotFound)
}

// Chats returns all chats, most recent activity first.
func (s *Store) Chats() []messaging.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]messaging.Chat, len(s.data.Chats))
	copy(out, s.data.Chats)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Messages returns a chat's messages in the order they were added.
func (s *Store) Messages(chat messaging.ChatID) []messaging.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []messaging.Message
	for _, m := range s.data.Messages {
		if m.ChatID == chat {
			out = append(out, m)
		}
	}
	return out
}

// Append adds a message to a chat and updates the chat summary. Incoming
// messages count as unread.
func (s *Store) Append(chat messaging.ChatID, sender, text string, outgoing bool, replyTo messaging.MessageID) (messaging.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.chatIndex(chat)
	if ci < 0 {
		return messaging.Message{}, fmt.Errorf("chat %d: %w", chat, messaging.ErrNotFound)
	}

	s.data.NextMessageID++
	m := messaging.Message{
		ID:       messaging.MessageID(s.data.NextMessageID),
		ChatID:   chat,
		Sender:   sender,
		Text:     text,
		Outgoing: outgoing,
		Date:     s.now(),
		ReplyTo:  replyTo,
	}
	s.data.Messages = append(s.data.Messages, m)

	c := &s.data.Chats[ci]
	c.LastMessage = text
	c.LastActivity = m.Date
	if !outgoing {
		c.Unread++
	}
	return m, nil
}

// Edit replaces a message's text.
func (s *Store) Edit(chat messaging.ChatID, id messaging.MessageID, text string) (messaging.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Messages {
		m := &s.data.Messages[i]
		if m.ChatID == chat && m.ID == id {
			m.Text = text
			m.Edited = true
			return *m, nil
		}
	}
	return messaging.Message{}, fmt.Errorf("message %d: %w", id, messaging.ErrNotFound)
}

// Delete removes messages from a chat and returns the ids that existed.
func (s *Store) Delete(chat messaging.ChatID, ids ...messaging.MessageID) []messaging.MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[messaging.MessageID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	var removed []messaging.MessageID
	kept := s.data.Messages[:0]
	for _, m := range s.data.Messages {
		if m.ChatID == chat && drop[m.ID] {
			removed = append(removed, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	s.data.Messages = kept
	return removed
}

// MarkRead clears the unread counter of a chat.
func (s *Store) MarkRead(chat messaging.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.chatIndex(chat)
	if ci < 0 {
		return fmt.Errorf("chat %d: %w", chat, messaging.ErrNotFound)
	}
	s.data.Chats[ci].Unread = 0
	return nil
}
