// Package messaging defines the chat data the UI works with and the client
// interface that backs it.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a request names a chat or message that does
// not exist.
var ErrNotFound = errors.New("not found")

type ChatID int64

type MessageID int64

// Chat is one conversation in the chat list.
type Chat struct {
	ID           ChatID    `json:"id"`
	Name         string    `json:"name"`
	Unread       int       `json:"unread"`
	LastMessage  string    `json:"last_message,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	Muted        bool      `json:"muted,omitempty"`
	Online       bool      `json:"online,omitempty"`
}

// Message is one entry in a chat's history.
type Message struct {
	ID       MessageID `json:"id"`
	ChatID   ChatID    `json:"chat_id"`
	Sender   string    `json:"sender"`
	Text     string    `json:"text"`
	Outgoing bool      `json:"outgoing,omitempty"`
	Date     time.Time `json:"date"`
	Edited   bool      `json:"edited,omitempty"`
	ReplyTo  MessageID `json:"reply_to,omitempty"`
}

type UpdateKind int

const (
	NewMessage UpdateKind = iota
	MessageEdited
	MessagesDeleted
	ChatUpdated
	ChatRemoved
)

func (k UpdateKind) String() string {
	switch k {
	case NewMessage:
		return "new_message"
	case MessageEdited:
		return "message_edited"
	case MessagesDeleted:
		return "messages_deleted"
	case ChatUpdated:
		return "chat_updated"
	case ChatRemoved:
		return "chat_removed"
	default:
		return fmt.Sprintf("update(%d)", int(k))
	}
}

// Update is pushed by the client whenever its data changes.
type Update struct {
	Kind     UpdateKind
	Chat     ChatID
	Message  Message
	Messages []MessageID
	// Revoke is set on MessagesDeleted when the messages were deleted for
	// everyone rather than only locally.
	Revoke bool
}

type RequestKind int

const (
	OpenChat RequestKind = iota
	Send
	Edit
	Delete
	Reply
	Copy
)

func (k RequestKind) String() string {
	switch k {
	case OpenChat:
		return "open_chat"
	case Send:
		return "send"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	case Reply:
		return "reply"
	case Copy:
		return "copy"
	default:
		return fmt.Sprintf("request(%d)", int(k))
	}
}

// Request is a command sent to the client.
type Request struct {
	Kind    RequestKind
	Chat    ChatID
	Message MessageID
	Text    string
	Revoke  bool
}

func (r Request) String() string {
	return fmt.Sprintf("%s chat=%d message=%d", r.Kind, r.Chat, r.Message)
}

// Client is the messaging backend. Chats and Messages read the client's
// local view and never block; Do performs a request and may.
type Client interface {
	// Chats returns chats in the backend's default order, most recent
	// activity first.
	Chats() []Chat
	// Messages returns the known history of a chat, oldest first.
	Messages(chat ChatID) []Message
	// Updates delivers changes until Close is called.
	Updates() <-chan Update
	Do(ctx context.Context, req Request) error
	Close() error
}

// FindChat looks a chat up by exact id.
func FindChat(chats []Chat, id ChatID) (Chat, bool) {
	for _, c := range chats {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}

// MatchChats returns the chats whose name contains query, ignoring case.
// A chat named exactly query is returned alone.
func MatchChats(chats []Chat, query string) []Chat {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Chat
	for _, c := range chats {
		name := strings.ToLower(c.Name)
		if name == q {
			return []Chat{c}
		}
		if strings.Contains(name, q) {
			out = append(out, c)
		}
	}
	return out
}

// FindMessage looks a message up by exact id.
func FindMessage(msgs []Message, id MessageID) (Message, bool) {
	for _, m := range msgs {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}
