package ordering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guzus/teleterm/internal/messaging"
)

// Strategy defines how the chat list is ordered for display.
type Strategy string

const (
	Default     Strategy = "default"
	Name        Strategy = "name"
	UnreadFirst Strategy = "unread"
)

var cycle = []Strategy{Default, Name, UnreadFirst}

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Default, Name, UnreadFirst:
		return Strategy(s), nil
	case "":
		return Default, nil
	default:
		return "", fmt.Errorf("unknown chat order %q (valid: default, name, unread)", s)
	}
}

// Next returns the strategy after s in the sort cycle, wrapping around.
func Next(s Strategy) Strategy {
	for i, c := range cycle {
		if c == s {
			return cycle[(i+1)%len(cycle)]
		}
	}
	// unknown strategy, start from the beginning
	return cycle[0]
}

// Apply returns chats ordered by strategy. The input is never modified and
// Default keeps the backend's order.
func Apply(chats []messaging.Chat, strategy Strategy) []messaging.Chat {
	sorted := make([]messaging.Chat, len(chats))
	copy(sorted, chats)

	switch strategy {
	case Name:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case UnreadFirst:
		sort.SliceStable(sorted, func(i, j int) bool {
			if (sorted[i].Unread > 0) != (sorted[j].Unread > 0) {
				return sorted[i].Unread > 0 // chats with unread messages first
			}
			return false
		})
	}
	return sorted
}

// Label is the short name shown in the status bar.
func (s Strategy) Label() string {
	switch s {
	case Name:
		return "by name"
	case UnreadFirst:
		return "unread first"
	default:
		return "recent"
	}
}
