package keymap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guzus/teleterm/internal/action"
)

func TestParseChordCanonicalForm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"q", "q"},
		{"Q", "shift+q"},
		{"shift+q", "shift+q"},
		{"alt+ctrl+x", "ctrl+alt+x"},
		{"Control+Shift+Up", "ctrl+shift+up"},
		{" ", "space"},
		{"space", "space"},
		{"escape", "esc"},
		{"return", "enter"},
		{"pageup", "pgup"},
		{"backtab", "shift+tab"},
		{"ctrl++", "ctrl++"},
		{"+", "+"},
		{"/", "/"},
		{"f12", "f12"},
	}
	for _, tt := range tests {
		c, err := ParseChord(tt.in)
		if err != nil {
			t.Fatalf("ParseChord(%q): %v", tt.in, err)
		}
		if got := c.String(); got != tt.want {
			t.Errorf("ParseChord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseChordErrors(t *testing.T) {
	for _, in := range []string{"", "hyper+x", "ctrl+", "notakey"} {
		if _, err := ParseChord(in); err == nil {
			t.Errorf("ParseChord(%q) expected error", in)
		}
	}
}

func TestChordRune(t *testing.T) {
	tests := []struct {
		in     string
		want   rune
		isText bool
	}{
		{"a", 'a', true},
		{"A", 'A', true},
		{"space", ' ', true},
		{"ctrl+a", 0, false},
		{"alt+a", 0, false},
		{"enter", 0, false},
		{"?", '?', true},
	}
	for _, tt := range tests {
		r, ok := MustChord(tt.in).Rune()
		if ok != tt.isText || r != tt.want {
			t.Errorf("%q.Rune() = %q,%v want %q,%v", tt.in, r, ok, tt.want, tt.isText)
		}
	}
}

func entry(cmd string, keys ...string) Entry {
	return Entry{Keys: keys, Command: cmd}
}

func TestBuildRejectsDuplicateSequenceInScope(t *testing.T) {
	_, err := Build(map[Scope][]Entry{
		ChatList: {
			entry("chat_list_next", "j"),
			entry("chat_list_previous", "j"),
		},
	})
	if err == nil {
		t.Fatal("expected duplicate binding error")
	}
	if !strings.Contains(err.Error(), "bound more than once") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildDuplicateDetectionUsesCanonicalForm(t *testing.T) {
	_, err := Build(map[Scope][]Entry{
		Global: {
			entry("quit", "Q"),
			entry("try_quit", "shift+q"),
		},
	})
	if err == nil {
		t.Fatal("expected Q and shift+q to collide")
	}
}

func TestBuildAllowsSameSequenceAcrossScopes(t *testing.T) {
	_, err := Build(map[Scope][]Entry{
		Global:   {entry("try_quit", "q")},
		ChatList: {entry("chat_list_next", "q")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRejectsUnknownCommandAndScope(t *testing.T) {
	_, err := Build(map[Scope][]Entry{
		Global:           {entry("launch_rockets", "x")},
		Scope("sidebar"): {entry("quit", "y")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "launch_rockets") || !strings.Contains(msg, "sidebar") {
		t.Errorf("expected both problems reported, got: %v", msg)
	}
}

func TestBuildRejectsInternalCommands(t *testing.T) {
	if _, err := Build(map[Scope][]Entry{Global: {entry("search_confirm", "x")}}); err == nil {
		t.Fatal("internal search command must not be bindable")
	}
}

func TestPanelBindingOverridesGlobal(t *testing.T) {
	tbl, err := Build(map[Scope][]Entry{
		Global:   {entry("try_quit", "q")},
		ChatList: {entry("chat_list_next", "q")},
	})
	if err != nil {
		t.Fatal(err)
	}

	b, _ := tbl.Lookup(ChatList, Sequence{MustChord("q")})
	if b == nil || b.Action.Kind != action.ChatListNext {
		t.Fatalf("chat_list lookup = %+v, want chat_list_next", b)
	}
	b, _ = tbl.Lookup(Chat, Sequence{MustChord("q")})
	if b == nil || b.Action.Kind != action.TryQuit {
		t.Fatalf("chat lookup = %+v, want global try_quit", b)
	}
}

func TestLookupReportsPrefix(t *testing.T) {
	tbl, err := Build(map[Scope][]Entry{
		Chat: {
			entry("chat_window_delete_for_me", "d", "m"),
			entry("chat_window_copy", "d"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	b, prefix := tbl.Lookup(Chat, Sequence{MustChord("d")})
	if b == nil || !prefix {
		t.Fatalf("expected exact and prefix match for d, got %v %v", b, prefix)
	}
	b, prefix = tbl.Lookup(Chat, Sequence{MustChord("d"), MustChord("m")})
	if b == nil || prefix || b.Action.Kind != action.ChatWindowDeleteForMe {
		t.Fatalf("expected exact match for d m, got %v %v", b, prefix)
	}
	b, prefix = tbl.Lookup(Chat, Sequence{MustChord("x")})
	if b != nil || prefix {
		t.Fatalf("expected no match, got %v %v", b, prefix)
	}
}

func TestBindingsListsShadowedGlobalOnce(t *testing.T) {
	tbl, err := Build(map[Scope][]Entry{
		Global:   {entry("try_quit", "q"), entry("quit", "ctrl+c")},
		ChatList: {entry("chat_list_next", "q")},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := tbl.Bindings(ChatList)
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(got))
	}
	if got[0].Action.Kind != action.ChatListNext || got[1].Action.Kind != action.Quit {
		t.Errorf("unexpected bindings: %+v", got)
	}
}

func TestMergeReplacesMatchingSequences(t *testing.T) {
	base := map[Scope][]Entry{
		Global: {entry("try_quit", "q"), entry("quit", "ctrl+c")},
	}
	user := map[Scope][]Entry{
		Global:   {entry("show_command_guide", "q"), entry("search", "ctrl+s")},
		ChatList: {entry("chat_list_next", "n")},
	}
	merged := Merge(base, user)

	g := merged[Global]
	if len(g) != 3 {
		t.Fatalf("expected 3 global entries, got %d", len(g))
	}
	if g[0].Command != "show_command_guide" || g[1].Command != "quit" || g[2].Command != "search" {
		t.Errorf("unexpected merge result: %+v", g)
	}
	if len(merged[ChatList]) != 1 {
		t.Errorf("expected chat_list entry carried over")
	}
	if len(base[Global]) != 2 || base[Global][0].Command != "try_quit" {
		t.Error("Merge must not modify base")
	}
}

func TestMergeKeepsUserDuplicatesForBuild(t *testing.T) {
	merged := Merge(
		map[Scope][]Entry{Global: {entry("try_quit", "q")}},
		map[Scope][]Entry{Global: {entry("quit", "q"), entry("search", "q")}},
	)
	if _, err := Build(merged); err == nil {
		t.Fatal("expected duplicate in user layer to fail Build")
	}
}

func TestDefaultKeymapBuilds(t *testing.T) {
	tbl := Default()
	b, _ := tbl.Lookup(Global, Sequence{MustChord("ctrl+c")})
	if b == nil || b.Action.Kind != action.Quit {
		t.Fatalf("ctrl+c should quit, got %+v", b)
	}
	b, prefix := tbl.Lookup(Chat, Sequence{MustChord("d")})
	if b != nil || !prefix {
		t.Fatalf("d should be a pure prefix in chat scope, got %v %v", b, prefix)
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
chat_list:
  keymap:
    - keys: ["n"]
      command: chat_list_next
      description: Next
`)
	entries, err := Decode(data, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries[ChatList]) != 1 || entries[ChatList][0].Command != "chat_list_next" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDecodeRejectsUnknownScope(t *testing.T) {
	data := []byte(`[sidebar]
keymap = [ { keys = ["x"], command = "quit" } ]
`)
	if _, err := Decode(data, FormatTOML); err == nil {
		t.Fatal("expected unknown scope error")
	}
}

func TestEncodeRoundTripTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Defaults(), FormatTOML); err != nil {
		t.Fatal(err)
	}
	entries, err := Decode(buf.Bytes(), FormatTOML)
	if err != nil {
		t.Fatalf("decoding encoded keymap: %v\n%s", err, buf.String())
	}
	if _, err := Build(entries); err != nil {
		t.Fatal(err)
	}
	if len(entries[Chat]) != len(Defaults()[Chat]) {
		t.Errorf("chat entries lost in round trip")
	}
}
