package action

import (
	"fmt"
	"sort"
)

// Kind identifies a command the dispatcher knows how to execute.
type Kind int

const (
	None Kind = iota

	Quit
	TryQuit
	ShowCommandGuide

	FocusChatList
	FocusChat
	FocusPrompt
	UnfocusComponent

	IncreaseChatListSize
	DecreaseChatListSize
	IncreasePromptSize
	DecreasePromptSize

	ChatListNext
	ChatListPrevious
	ChatListUnselect
	ChatListOpen
	ChatListSort

	ChatWindowNext
	ChatWindowPrevious
	ChatWindowUnselect
	ChatWindowDeleteForMe
	ChatWindowDeleteForEveryone
	ChatWindowCopy
	ChatWindowEdit
	ChatWindowReply

	PromptSend
	PromptCancelMode

	Search
	ChatListSearch
	ChatWindowSearch
	RestoreDefaultOrdering

	// Produced by the dispatcher while a search session is active. They
	// cannot be bound from configuration.
	SearchInput
	SearchBackspace
	SearchConfirm
	SearchCancel
	SearchNext
	SearchPrevious
)

var names = map[Kind]string{
	Quit:                        "quit",
	TryQuit:                     "try_quit",
	ShowCommandGuide:            "show_command_guide",
	FocusChatList:               "focus_chat_list",
	FocusChat:                   "focus_chat",
	FocusPrompt:                 "focus_prompt",
	UnfocusComponent:            "unfocus_component",
	IncreaseChatListSize:        "increase_chat_list_size",
	DecreaseChatListSize:        "decrease_chat_list_size",
	IncreasePromptSize:          "increase_prompt_size",
	DecreasePromptSize:          "decrease_prompt_size",
	ChatListNext:                "chat_list_next",
	ChatListPrevious:            "chat_list_previous",
	ChatListUnselect:            "chat_list_unselect",
	ChatListOpen:                "chat_list_open",
	ChatListSort:                "chat_list_sort",
	ChatWindowNext:              "chat_window_next",
	ChatWindowPrevious:          "chat_window_previous",
	ChatWindowUnselect:          "chat_window_unselect",
	ChatWindowDeleteForMe:       "chat_window_delete_for_me",
	ChatWindowDeleteForEveryone: "chat_window_delete_for_everyone",
	ChatWindowCopy:              "chat_window_copy",
	ChatWindowEdit:              "chat_window_edit",
	ChatWindowReply:             "chat_window_reply",
	PromptSend:                  "prompt_send",
	PromptCancelMode:            "prompt_cancel_mode",
	Search:                      "search",
	ChatListSearch:              "chat_list_search",
	ChatWindowSearch:            "chat_window_search",
	RestoreDefaultOrdering:      "restore_default_ordering",
	SearchInput:                 "search_input",
	SearchBackspace:             "search_backspace",
	SearchConfirm:               "search_confirm",
	SearchCancel:                "search_cancel",
	SearchNext:                  "search_next",
	SearchPrevious:              "search_previous",
}

var bindable = func() map[string]Kind {
	out := make(map[string]Kind, len(names))
	for k, n := range names {
		if k >= SearchInput {
			continue
		}
		out[n] = k
	}
	return out
}()

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Parse converts a configuration command name into a Kind. Internal kinds
// are rejected.
func Parse(name string) (Kind, error) {
	if k, ok := bindable[name]; ok {
		return k, nil
	}
	return None, fmt.Errorf("unknown command %q", name)
}

// Names lists every command that can appear in a keymap file, sorted.
func Names() []string {
	out := make([]string, 0, len(bindable))
	for n := range bindable {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsGlobal reports whether the kind is handled by the application shell
// rather than by the focused panel.
func (k Kind) IsGlobal() bool {
	switch k {
	case Quit, TryQuit, ShowCommandGuide,
		FocusChatList, FocusChat, FocusPrompt, UnfocusComponent,
		IncreaseChatListSize, DecreaseChatListSize, IncreasePromptSize, DecreasePromptSize,
		Search, ChatListSearch, ChatWindowSearch, RestoreDefaultOrdering:
		return true
	}
	return false
}

// IsSearch reports whether the kind only makes sense inside a search session.
func (k Kind) IsSearch() bool {
	return k >= SearchInput && k <= SearchPrevious
}

// Action is a resolved command with its optional payload.
type Action struct {
	Kind Kind
	// Text carries the typed characters for SearchInput.
	Text string
}

// Of wraps a kind without payload.
func Of(k Kind) Action { return Action{Kind: k} }

func (a Action) String() string {
	if a.Text != "" {
		return fmt.Sprintf("%s(%q)", a.Kind, a.Text)
	}
	return a.Kind.String()
}
