package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guzus/teleterm/internal/messaging"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "chats.json")
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := OpenPath(tempStorePath(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return st
}

func TestOpenPathCreatesEmptyStore(t *testing.T) {
	st, err := OpenPath(tempStorePath(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(st.Chats()); n != 0 {
		t.Errorf("expected 0 chats, got %d", n)
	}
}

func TestAddChatAndList(t *testing.T) {
	st := openTemp(t)

	alice, err := st.AddChat("alice")
	if err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	bob, err := st.AddChat("bob")
	if err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if alice.ID == bob.ID {
		t.Fatal("chat ids must be unique")
	}

	chats := st.Chats()
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}
	if chats[0].Name != "bob" {
		t.Errorf("expected most recent chat first, got %q", chats[0].Name)
	}
}

func TestAddChatDuplicate(t *testing.T) {
	st := openTemp(t)
	st.AddChat("alice")
	if _, err := st.AddChat("Alice"); err == nil {
		t.Error("expected error adding duplicate chat")
	}
}

func TestRemoveChatDropsMessages(t *testing.T) {
	st := openTemp(t)
	alice, _ := st.AddChat("alice")
	st.AddChat("bob")
	st.Append(alice.ID, "alice", "hi", false, 0)

	if _, err := st.RemoveChat("alice"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if n := len(st.Chats()); n != 1 {
		t.Errorf("expected 1 chat, got %d", n)
	}
	if len(st.Messages(alice.ID)) != 0 {
		t.Error("messages of removed chat should be gone")
	}
}

func TestRemoveChatNotFound(t *testing.T) {
	st := openTemp(t)
	_, err := st.RemoveChat("nonexistent")
	if !errors.Is(err, messaging.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendUpdatesChatSummary(t *testing.T) {
	st := openTemp(t)
	alice, _ := st.AddChat("alice")
	bob, _ := st.AddChat("bob")

	m, err := st.Append(alice.ID, "alice", "lunch?", false, 0)
	if err != nil {
		t.Fatal(err)
	}
	st.Append(alice.ID, "me", "sure", true, m.ID)

	c, _ := messaging.FindChat(st.Chats(), alice.ID)
	if c.Unread != 1 {
		t.Errorf("expected 1 unread, got %d", c.Unread)
	}
	if c.LastMessage != "sure" {
		t.Errorf("expected last message sure, got %q", c.LastMessage)
	}
	if st.Chats()[0].ID != alice.ID {
		t.Errorf("chat with newest message should come first, bob=%d", bob.ID)
	}

	msgs := st.Messages(alice.ID)
	if len(msgs) != 2 || msgs[1].ReplyTo != m.ID || !msgs[1].Outgoing {
		t.Fatalf("unexpected messages %+v", msgs)
	}

	if _, err := st.Append(999, "x", "y", false, 0); !errors.Is(err, messaging.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditAndDelete(t *testing.T) {
	st := openTemp(t)
	alice, _ := st.AddChat("alice")
	m1, _ := st.Append(alice.ID, "me", "helo", true, 0)
	m2, _ := st.Append(alice.ID, "me", "bye", true, 0)

	edited, err := st.Edit(alice.ID, m1.ID, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !edited.Edited || edited.Text != "hello" {
		t.Fatalf("unexpected edit result %+v", edited)
	}

	removed := st.Delete(alice.ID, m2.ID, 12345)
	if len(removed) != 1 || removed[0] != m2.ID {
		t.Fatalf("expected only m2 removed, got %v", removed)
	}
	if len(st.Messages(alice.ID)) != 1 {
		t.Fatal("expected one message left")
	}
}

func TestMarkRead(t *testing.T) {
	st := openTemp(t)
	alice, _ := st.AddChat("alice")
	st.Append(alice.ID, "alice", "hi", false, 0)
	if err := st.MarkRead(alice.ID); err != nil {
		t.Fatal(err)
	}
	c, _ := messaging.FindChat(st.Chats(), alice.ID)
	if c.Unread != 0 {
		t.Errorf("expected unread cleared, got %d", c.Unread)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := tempStorePath(t)
	st, _ := OpenPath(path)
	alice, _ := st.AddChat("alice")
	st.Append(alice.ID, "alice", "hi", false, 0)

	if err := st.Save(); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	st2, err := OpenPath(path)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	if len(st2.Chats()) != 1 || len(st2.Messages(alice.ID)) != 1 {
		t.Fatal("data not persisted")
	}
	next, _ := st2.AddChat("bob")
	if next.ID == alice.ID {
		t.Fatal("id counter must survive reload")
	}
}

func TestOpenPathInvalidJSON(t *testing.T) {
	path := tempStorePath(t)
	os.WriteFile(path, []byte("not json"), 0600)

	if _, err := OpenPath(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
