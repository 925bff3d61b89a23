package ordering

import (
	"testing"

	"github.com/guzus/teleterm/internal/messaging"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
		err   bool
	}{
		{"default", Default, false},
		{"name", Name, false},
		{"unread", UnreadFirst, false},
		{"", Default, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.err && err == nil {
				t.Error("expected error")
			}
			if !tt.err && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextCycles(t *testing.T) {
	s := Default
	seen := []Strategy{s}
	for i := 0; i < 3; i++ {
		s = Next(s)
		seen = append(seen, s)
	}
	want := []Strategy{Default, Name, UnreadFirst, Default}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
	if Next("bogus") != Default {
		t.Error("unknown strategy should restart the cycle")
	}
}

func testChats() []messaging.Chat {
	return []messaging.Chat{
		{ID: 1, Name: "carol"},
		{ID: 2, Name: "Alice", Unread: 2},
		{ID: 3, Name: "bob"},
		{ID: 4, Name: "dave", Unread: 1},
	}
}

func ids(chats []messaging.Chat) []messaging.ChatID {
	out := make([]messaging.ChatID, len(chats))
	for i, c := range chats {
		out[i] = c.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     []messaging.ChatID
	}{
		{Default, []messaging.ChatID{1, 2, 3, 4}},
		{Name, []messaging.ChatID{2, 3, 1, 4}},
		{UnreadFirst, []messaging.ChatID{2, 4, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			got := ids(Apply(testChats(), tt.strategy))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	in := testChats()
	Apply(in, Name)
	if in[0].ID != 1 {
		t.Fatal("input slice was reordered")
	}
}
