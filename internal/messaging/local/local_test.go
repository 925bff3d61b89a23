package local

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/store"
)

func seeded(t *testing.T) (*store.Store, messaging.Chat) {
	t.Helper()
	st, err := store.OpenPath(filepath.Join(t.TempDir(), "chats.json"))
	if err != nil {
		t.Fatal(err)
	}
	chat, err := st.AddChat("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Append(chat.ID, "Alice", "hi there", false, 0); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(); err != nil {
		t.Fatal(err)
	}
	return st, chat
}

func newClient(t *testing.T, st *store.Store, opts ...Option) *Client {
	t.Helper()
	c, err := New(st, append([]Option{WithoutWatcher()}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func drain(c *Client) []messaging.Update {
	var out []messaging.Update
	for {
		select {
		case u := <-c.Updates():
			out = append(out, u)
		default:
			return out
		}
	}
}

func kinds(updates []messaging.Update) []messaging.UpdateKind {
	out := make([]messaging.UpdateKind, len(updates))
	for i, u := range updates {
		out[i] = u.Kind
	}
	return out
}

func TestSendEmitsMessageAndChatUpdate(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st, WithSelf("me"))

	err := c.Do(context.Background(), messaging.Request{Kind: messaging.Send, Chat: chat.ID, Text: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	got := drain(c)
	if len(got) != 2 || got[0].Kind != messaging.NewMessage || got[1].Kind != messaging.ChatUpdated {
		t.Fatalf("unexpected updates %v", kinds(got))
	}
	if m := got[0].Message; m.Text != "hello" || !m.Outgoing || m.Sender != "me" {
		t.Errorf("unexpected message %+v", m)
	}

	reopened, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	if n := len(reopened.Messages(chat.ID)); n != 2 {
		t.Errorf("send was not saved, %d messages on disk", n)
	}
}

func TestOpenChatMarksRead(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st)

	if err := c.Do(context.Background(), messaging.Request{Kind: messaging.OpenChat, Chat: chat.ID}); err != nil {
		t.Fatal(err)
	}
	if got, _ := messaging.FindChat(c.Chats(), chat.ID); got.Unread != 0 {
		t.Errorf("expected no unread messages, got %d", got.Unread)
	}
	if got := kinds(drain(c)); len(got) != 1 || got[0] != messaging.ChatUpdated {
		t.Errorf("unexpected updates %v", got)
	}
}

func TestEditAndDelete(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st)
	ctx := context.Background()

	if err := c.Do(ctx, messaging.Request{Kind: messaging.Send, Chat: chat.ID, Text: "tpyo"}); err != nil {
		t.Fatal(err)
	}
	sent := drain(c)[0].Message

	if err := c.Do(ctx, messaging.Request{Kind: messaging.Edit, Chat: chat.ID, Message: sent.ID, Text: "typo"}); err != nil {
		t.Fatal(err)
	}
	got := drain(c)
	if len(got) == 0 || got[0].Kind != messaging.MessageEdited || got[0].Message.Text != "typo" {
		t.Fatalf("unexpected updates %+v", got)
	}

	if err := c.Do(ctx, messaging.Request{Kind: messaging.Delete, Chat: chat.ID, Message: sent.ID, Revoke: true}); err != nil {
		t.Fatal(err)
	}
	got = drain(c)
	if len(got) == 0 || got[0].Kind != messaging.MessagesDeleted {
		t.Fatalf("unexpected updates %v", kinds(got))
	}
	if ids := got[0].Messages; len(ids) != 1 || ids[0] != sent.ID {
		t.Errorf("unexpected deleted ids %v", ids)
	}
}

func TestMissingTargetsReportNotFound(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st)
	ctx := context.Background()

	tests := map[string]messaging.Request{
		"delete": {Kind: messaging.Delete, Chat: chat.ID, Message: 999},
		"edit":   {Kind: messaging.Edit, Chat: chat.ID, Message: 999, Text: "x"},
		"reply":  {Kind: messaging.Reply, Chat: chat.ID, Message: 999, Text: "x"},
		"send":   {Kind: messaging.Send, Chat: 999, Text: "x"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			if err := c.Do(ctx, req); !errors.Is(err, messaging.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
	if got := drain(c); len(got) != 0 {
		t.Errorf("failed requests emitted updates: %v", kinds(got))
	}
}

func TestCopyUsesClipboard(t *testing.T) {
	st, chat := seeded(t)
	var copied string
	c := newClient(t, st, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	msg := st.Messages(chat.ID)[0]

	if err := c.Do(context.Background(), messaging.Request{Kind: messaging.Copy, Chat: chat.ID, Message: msg.ID}); err != nil {
		t.Fatal(err)
	}
	if copied != "hi there" {
		t.Errorf("expected message text on clipboard, got %q", copied)
	}
}

func TestDoHonoursCancelledContext(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Do(ctx, messaging.Request{Kind: messaging.Send, Chat: chat.ID, Text: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRefreshReportsExternalChanges(t *testing.T) {
	st, chat := seeded(t)
	c := newClient(t, st)

	other, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	old := other.Messages(chat.ID)[0]
	other.Delete(chat.ID, old.ID)
	if _, err := other.Append(chat.ID, "Alice", "are you there?", false, 0); err != nil {
		t.Fatal(err)
	}
	bob, err := other.AddChat("Bob")
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	c.refresh()
	got := drain(c)
	want := []messaging.UpdateKind{
		messaging.MessagesDeleted,
		messaging.NewMessage,
		messaging.ChatUpdated,
		messaging.ChatUpdated,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds(got))
	}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds(got))
		}
	}
	if got[3].Chat != bob.ID {
		t.Errorf("expected new chat %d announced last, got %d", bob.ID, got[3].Chat)
	}

	c.refresh()
	if again := drain(c); len(again) != 0 {
		t.Errorf("unchanged file produced updates: %v", kinds(again))
	}
}

func TestRefreshReportsRemovedChat(t *testing.T) {
	st, _ := seeded(t)
	c := newClient(t, st)

	other, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.RemoveChat("alice"); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	c.refresh()
	got := drain(c)
	if len(got) != 1 || got[0].Kind != messaging.ChatRemoved {
		t.Fatalf("expected a single removal, got %v", kinds(got))
	}
}

func TestWatcherPicksUpWrites(t *testing.T) {
	st, chat := seeded(t)
	c, err := New(st)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	other, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Append(chat.ID, "Alice", "ping", false, 0); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case u := <-c.Updates():
			if u.Kind == messaging.NewMessage && u.Message.Text == "ping" {
				return
			}
		case <-timeout:
			t.Fatal("no update for external write")
		}
	}
}
