package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guzus/teleterm/internal/messaging"
)

type EventType string

const (
	EventChats           EventType = "chats"
	EventMessages        EventType = "messages"
	EventNewMessage      EventType = "new_message"
	EventMessageEdited   EventType = "message_edited"
	EventMessagesDeleted EventType = "messages_deleted"
	EventChatUpdated     EventType = "chat_updated"
	EventChatRemoved     EventType = "chat_removed"
	EventResult          EventType = "result"
)

// Event is one line written by the helper.
type Event struct {
	Type       EventType             `json:"type"`
	ID         string                `json:"id,omitempty"`
	OK         bool                  `json:"ok,omitempty"`
	Error      string                `json:"error,omitempty"`
	ChatID     messaging.ChatID      `json:"chat_id,omitempty"`
	Chat       *messaging.Chat       `json:"chat,omitempty"`
	Chats      []messaging.Chat      `json:"chats,omitempty"`
	Message    *messaging.Message    `json:"message,omitempty"`
	Messages   []messaging.Message   `json:"messages,omitempty"`
	MessageIDs []messaging.MessageID `json:"message_ids,omitempty"`
	Revoke     bool                  `json:"revoke,omitempty"`
}

// Command is one line written to the helper.
type Command struct {
	ID        string              `json:"id"`
	Op        string              `json:"op"`
	ChatID    messaging.ChatID    `json:"chat_id,omitempty"`
	MessageID messaging.MessageID `json:"message_id,omitempty"`
	Text      string              `json:"text,omitempty"`
	Revoke    bool                `json:"revoke,omitempty"`
}

const opSync = "sync"

func commandFor(id string, req messaging.Request) Command {
	return Command{
		ID:        id,
		Op:        req.Kind.String(),
		ChatID:    req.Chat,
		MessageID: req.Message,
		Text:      req.Text,
		Revoke:    req.Revoke,
	}
}

// decodeEvent parses one line. Blank lines yield ok=false; an optional
// "data: " prefix is accepted.
func decodeEvent(line string) (ev Event, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, false, nil
	}
	if after, found := strings.CutPrefix(line, "data: "); found {
		line = after
	}
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return Event{}, false, fmt.Errorf("decoding event: %w", err)
	}
	if err := ev.validate(); err != nil {
		return Event{}, false, err
	}
	return ev, true, nil
}

func (ev Event) validate() error {
	switch ev.Type {
	case EventChats:
	case EventMessages, EventMessagesDeleted, EventChatRemoved:
		if ev.ChatID == 0 {
			return fmt.Errorf("%s event without chat_id", ev.Type)
		}
	case EventNewMessage, EventMessageEdited:
		if ev.Message == nil {
			return fmt.Errorf("%s event without message", ev.Type)
		}
	case EventChatUpdated:
		if ev.Chat == nil {
			return fmt.Errorf("%s event without chat", ev.Type)
		}
	case EventResult:
		if ev.ID == "" {
			return fmt.Errorf("result without id")
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
