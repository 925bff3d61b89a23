package messaging

import "testing"

func TestMatchChats(t *testing.T) {
	chats := []Chat{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Annabel"}, {ID: 3, Name: "Bob"}}
	tests := []struct {
		query string
		want  []ChatID
	}{
		{query: "ann", want: []ChatID{1}},
		{query: " ANN ", want: []ChatID{1}},
		{query: "an", want: []ChatID{1, 2}},
		{query: "bel", want: []ChatID{2}},
		{query: "zed", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := MatchChats(chats, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("MatchChats(%q) = %+v, want ids %v", tt.query, got, tt.want)
			}
			for i, c := range got {
				if c.ID != tt.want[i] {
					t.Fatalf("MatchChats(%q)[%d] = %d, want %d", tt.query, i, c.ID, tt.want[i])
				}
			}
		})
	}
}
