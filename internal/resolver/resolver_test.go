package resolver

import (
	"testing"
	"time"

	"github.com/guzus/teleterm/internal/action"
	"github.com/guzus/teleterm/internal/keymap"
)

func testTable(t *testing.T) *keymap.Table {
	t.Helper()
	tbl, err := keymap.Build(map[keymap.Scope][]keymap.Entry{
		keymap.Global: {
			{Keys: []string{"q"}, Command: "try_quit"},
			{Keys: []string{"g", "g"}, Command: "focus_chat_list"},
		},
		keymap.Chat: {
			{Keys: []string{"d"}, Command: "chat_window_copy"},
			{Keys: []string{"d", "m"}, Command: "chat_window_delete_for_me"},
			{Keys: []string{"d", "d"}, Command: "chat_window_delete_for_everyone"},
			{Keys: []string{"j"}, Command: "chat_window_next"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func chord(s string) keymap.Chord { return keymap.MustChord(s) }

func kindOf(b *keymap.Binding) action.Kind {
	if b == nil {
		return action.None
	}
	return b.Action.Kind
}

func TestSingleChordResolvesImmediately(t *testing.T) {
	r := New(testTable(t), 0)
	res := r.Feed(chord("j"), keymap.Chat)
	if res.Status != Resolved || kindOf(res.Binding) != action.ChatWindowNext {
		t.Fatalf("got %+v", res)
	}
	if len(r.Buffered()) != 0 {
		t.Error("buffer should be empty after resolve")
	}
}

func TestDefaultTimeout(t *testing.T) {
	if got := New(testTable(t), 0).Timeout(); got != time.Second {
		t.Errorf("expected 1s default, got %v", got)
	}
	if got := New(testTable(t), 250*time.Millisecond).Timeout(); got != 250*time.Millisecond {
		t.Errorf("expected configured timeout, got %v", got)
	}
}

func TestTwoChordSequenceResolves(t *testing.T) {
	r := New(testTable(t), 0)
	res := r.Feed(chord("g"), keymap.ChatList)
	if res.Status != Pending {
		t.Fatalf("expected pending, got %v", res.Status)
	}
	res = r.Feed(chord("g"), keymap.ChatList)
	if res.Status != Resolved || kindOf(res.Binding) != action.FocusChatList {
		t.Fatalf("got %+v", res)
	}
}

func TestAmbiguousPrefixResolvesToShorterOnTimeout(t *testing.T) {
	r := New(testTable(t), 0)
	res := r.Feed(chord("d"), keymap.Chat)
	if res.Status != Pending {
		t.Fatalf("expected pending, got %v", res.Status)
	}

	out, ok := r.Expire(res.Generation)
	if !ok {
		t.Fatal("timer should be current")
	}
	if out.Status != Resolved || kindOf(out.Binding) != action.ChatWindowCopy {
		t.Fatalf("expected shorter binding, got %+v", out)
	}
	if len(r.Buffered()) != 0 {
		t.Error("buffer should reset after timeout")
	}
}

func TestAmbiguousPrefixResolvesToLongerOnContinuation(t *testing.T) {
	r := New(testTable(t), 0)
	first := r.Feed(chord("d"), keymap.Chat)
	res := r.Feed(chord("m"), keymap.Chat)
	if res.Status != Resolved || kindOf(res.Binding) != action.ChatWindowDeleteForMe {
		t.Fatalf("got %+v", res)
	}
	if _, ok := r.Expire(first.Generation); ok {
		t.Error("timer armed before the continuation must be stale")
	}
}

func TestTimeoutWithoutExactMatchIsUnmatched(t *testing.T) {
	r := New(testTable(t), 0)
	res := r.Feed(chord("g"), keymap.Chat)
	out, ok := r.Expire(res.Generation)
	if !ok || out.Status != Unmatched {
		t.Fatalf("expected unmatched after timeout, got %+v %v", out, ok)
	}
}

func TestDeadEndRetriesChordFresh(t *testing.T) {
	r := New(testTable(t), 0)
	r.Feed(chord("g"), keymap.Chat)
	res := r.Feed(chord("j"), keymap.Chat)
	if res.Status != Resolved || kindOf(res.Binding) != action.ChatWindowNext {
		t.Fatalf("expected j to resolve on its own, got %+v", res)
	}
	if res.Flushed != nil {
		t.Errorf("g is not a complete binding, nothing to flush")
	}
}

func TestDeadEndFlushesAmbiguousShorterBinding(t *testing.T) {
	r := New(testTable(t), 0)
	r.Feed(chord("d"), keymap.Chat)
	res := r.Feed(chord("j"), keymap.Chat)
	if kindOf(res.Flushed) != action.ChatWindowCopy {
		t.Fatalf("expected d to flush, got %+v", res.Flushed)
	}
	if res.Status != Resolved || kindOf(res.Binding) != action.ChatWindowNext {
		t.Fatalf("expected j to resolve, got %+v", res)
	}
}

func TestUnknownChordIsUnmatched(t *testing.T) {
	r := New(testTable(t), 0)
	res := r.Feed(chord("z"), keymap.Chat)
	if res.Status != Unmatched || res.Binding != nil {
		t.Fatalf("got %+v", res)
	}
}

func TestScopeChangeResetsBuffer(t *testing.T) {
	r := New(testTable(t), 0)
	pending := r.Feed(chord("d"), keymap.Chat)
	res := r.Feed(chord("m"), keymap.ChatList)
	if res.Status != Unmatched {
		t.Fatalf("m alone is unbound in chat_list, got %+v", res)
	}
	if _, ok := r.Expire(pending.Generation); ok {
		t.Error("timer from the old scope must be stale")
	}
}

func TestExpireIgnoresStaleGeneration(t *testing.T) {
	r := New(testTable(t), 0)
	first := r.Feed(chord("g"), keymap.Chat)
	r.Reset()
	second := r.Feed(chord("d"), keymap.Chat)

	if _, ok := r.Expire(first.Generation); ok {
		t.Fatal("expected stale generation to be ignored")
	}
	out, ok := r.Expire(second.Generation)
	if !ok || kindOf(out.Binding) != action.ChatWindowCopy {
		t.Fatalf("expected current generation to resolve, got %+v %v", out, ok)
	}
}
