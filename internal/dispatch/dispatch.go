// Package dispatch routes key chords and resolved actions to the active
// search session, the application shell, or the focused panel.
package dispatch

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/guzus/teleterm/internal/action"
	"github.com/guzus/teleterm/internal/focus"
	"github.com/guzus/teleterm/internal/keymap"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/ordering"
	"github.com/guzus/teleterm/internal/resolver"
	"github.com/guzus/teleterm/internal/search"
	"github.com/guzus/teleterm/internal/selection"
)

// Source is the read side of the messaging client.
type Source interface {
	Chats() []messaging.Chat
	Messages(chat messaging.ChatID) []messaging.Message
}

// PromptMode decides what submitting the prompt does.
type PromptMode int

const (
	Compose PromptMode = iota
	Editing
	Replying
)

func (m PromptMode) String() string {
	switch m {
	case Editing:
		return "edit"
	case Replying:
		return "reply"
	default:
		return "compose"
	}
}

// Effects is what the UI has to carry out after a key, timeout or action.
type Effects struct {
	Requests []messaging.Request
	// Forward passes the key that produced these effects to the prompt input.
	Forward bool
	Quit    bool
	// Arm asks for a sequence timer tagged with this generation.
	Arm uint64
	// Prefill replaces the prompt text when non-nil.
	Prefill *string
	// Submit asks the UI to read the prompt and call Submit.
	Submit bool
	Notice string
}

func (e *Effects) merge(o Effects) {
	e.Requests = append(e.Requests, o.Requests...)
	e.Forward = e.Forward || o.Forward
	e.Quit = e.Quit || o.Quit
	e.Submit = e.Submit || o.Submit
	if o.Arm != 0 {
		e.Arm = o.Arm
	}
	if o.Prefill != nil {
		e.Prefill = o.Prefill
	}
	if o.Notice != "" {
		e.Notice = o.Notice
	}
}

type handler func(d *Dispatcher, a action.Action) Effects

// Options configures a Dispatcher.
type Options struct {
	Table   *keymap.Table
	Timeout time.Duration
	Source  Source
	Layout  Layout
	// Order is the initial chat list ordering; empty means the default.
	Order ordering.Strategy
}

// Dispatcher owns the interaction state of the main screen. It is driven
// from the UI goroutine only.
type Dispatcher struct {
	table    *keymap.Table
	resolver *resolver.Resolver
	focus    *focus.Machine
	search   search.Controller[messaging.ChatID, messaging.MessageID]
	chats    selection.Tracker[messaging.ChatID]
	messages selection.Tracker[messaging.MessageID]
	order    ordering.Strategy
	src      Source
	handlers map[focus.Target]handler
	logger   *log.Logger

	open    messaging.ChatID
	hasOpen bool

	mode   PromptMode
	target messaging.MessageID

	layout Layout
	guide  bool
}

// New builds a Dispatcher. A nil table selects the built-in keymap.
func New(opts Options) *Dispatcher {
	tbl := opts.Table
	if tbl == nil {
		tbl = keymap.Default()
	}
	d := &Dispatcher{
		table:    tbl,
		resolver: resolver.New(tbl, opts.Timeout),
		order:    opts.Order,
		src:      opts.Source,
		layout:   opts.Layout.clamp(),
		logger:   log.With("component", "dispatch"),
		handlers: map[focus.Target]handler{
			focus.ChatList: (*Dispatcher).chatListAction,
			focus.Chat:     (*Dispatcher).chatAction,
			focus.Prompt:   (*Dispatcher).promptAction,
		},
	}
	if d.order == "" {
		d.order = ordering.Default
	}
	d.focus = focus.NewMachine(d.canFocus)
	return d
}

func (d *Dispatcher) canFocus(t focus.Target) bool {
	switch t {
	case focus.Chat, focus.Prompt:
		return d.hasOpen
	default:
		return true
	}
}

// Timeout is the multi-chord idle window.
func (d *Dispatcher) Timeout() time.Duration { return d.resolver.Timeout() }

// HandleKey processes one chord typed by the user.
func (d *Dispatcher) HandleKey(c keymap.Chord) Effects {
	if d.guide && c.Mods == 0 && c.Key == "esc" {
		d.guide = false
		return Effects{}
	}

	if d.search.Active() != search.Off {
		if a, ok := searchKey(c); ok {
			d.resolver.Reset()
			return d.Dispatch(a)
		}
	}

	if d.focus.Current() == focus.Prompt && c.IsText() {
		d.resolver.Reset()
		return Effects{Forward: true}
	}

	res := d.resolver.Feed(c, d.focus.Current().Scope())
	eff := d.apply(res)
	if res.Status == resolver.Unmatched && res.Flushed == nil {
		d.logger.Debug("unmatched key", "key", c, "focus", d.focus.Current())
		if d.focus.Current() == focus.Prompt {
			eff.Forward = true
		}
	}
	return eff
}

// HandleText processes text that arrived as one event rather than as
// single chords: several runes read together or a paste. It edits the query
// of an active search, goes to the prompt when that has focus, and is
// dropped otherwise.
func (d *Dispatcher) HandleText(text string) Effects {
	if d.guide || text == "" {
		return Effects{}
	}
	if d.search.Active() != search.Off {
		d.resolver.Reset()
		return d.Dispatch(action.Action{Kind: action.SearchInput, Text: queryText(text)})
	}
	if d.focus.Current() == focus.Prompt {
		d.resolver.Reset()
		return Effects{Forward: true}
	}
	return Effects{}
}

// queryText turns pasted line breaks and other control characters into
// spaces.
func queryText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
}

// HandleTimeout resolves the pending sequence if gen is still current.
func (d *Dispatcher) HandleTimeout(gen uint64) Effects {
	res, ok := d.resolver.Expire(gen)
	if !ok {
		return Effects{}
	}
	eff := d.apply(res)
	eff.Forward = false
	return eff
}

func (d *Dispatcher) apply(res resolver.Result) Effects {
	var eff Effects
	if res.Flushed != nil {
		eff.merge(d.Dispatch(res.Flushed.Action))
	}
	switch res.Status {
	case resolver.Pending:
		eff.Arm = res.Generation
	case resolver.Resolved:
		eff.merge(d.Dispatch(res.Binding.Action))
	}
	return eff
}

// searchKey maps the keys that edit or leave a query. They never go through
// the keymap while a session is active.
func searchKey(c keymap.Chord) (action.Action, bool) {
	if r, ok := c.Rune(); ok {
		return action.Action{Kind: action.SearchInput, Text: string(r)}, true
	}
	if c.Mods == 0 {
		switch c.Key {
		case "backspace":
			return action.Of(action.SearchBackspace), true
		case "enter":
			return action.Of(action.SearchConfirm), true
		case "esc":
			return action.Of(action.SearchCancel), true
		case "tab":
			return action.Of(action.SearchNext), true
		}
	}
	if c.Mods == keymap.Shift && c.Key == "tab" {
		return action.Of(action.SearchPrevious), true
	}
	return action.Action{}, false
}

// Dispatch executes a resolved action. An active search session sees it
// first, then global actions run, then the focused panel's handler.
func (d *Dispatcher) Dispatch(a action.Action) Effects {
	d.logger.Debug("dispatch", "action", a, "focus", d.focus.Current(), "search", d.search.Active())

	if d.search.Active() != search.Off {
		if eff, ok := d.offerSearch(a); ok {
			return eff
		}
	}
	if a.Kind.IsGlobal() {
		return d.global(a)
	}
	if h, ok := d.handlers[d.focus.Current()]; ok {
		return h(d, a)
	}
	return Effects{}
}

type sessionOps interface {
	Insert(text string)
	Backspace()
	Next()
	Previous()
}

func (d *Dispatcher) session() sessionOps {
	if s := d.search.Chats(); s != nil {
		return s
	}
	if s := d.search.Messages(); s != nil {
		return s
	}
	return nil
}

func (d *Dispatcher) offerSearch(a action.Action) (Effects, bool) {
	s := d.session()
	switch a.Kind {
	case action.SearchInput:
		s.Insert(a.Text)
	case action.SearchBackspace:
		s.Backspace()
	case action.SearchNext, action.ChatListNext, action.ChatWindowNext:
		s.Next()
	case action.SearchPrevious, action.ChatListPrevious, action.ChatWindowPrevious:
		s.Previous()
	case action.SearchConfirm, action.SearchCancel, action.UnfocusComponent:
		d.exitSearch()
	case action.ChatListOpen:
		if d.search.Active() != search.Chats {
			return Effects{}, false
		}
		d.exitSearch()
		return d.openSelected(), true
	default:
		return Effects{}, false
	}
	return Effects{}, true
}

// exitSearch ends the session and hands its cursor to the panel selection.
func (d *Dispatcher) exitSearch() {
	if s := d.search.Chats(); s != nil {
		if id, ok := s.Cursor(); ok {
			d.chats.Select(id)
		} else {
			d.chats.Clear()
		}
	}
	if s := d.search.Messages(); s != nil {
		if id, ok := s.Cursor(); ok {
			d.messages.Select(id)
		} else {
			d.messages.Clear()
		}
	}
	d.search.Discard()
}

func (d *Dispatcher) activateSearch(p search.Panel) Effects {
	if p == search.Messages && !d.hasOpen {
		return Effects{}
	}
	if d.search.Active() == p {
		return Effects{}
	}

	switch p {
	case search.Chats:
		chats := d.orderedChats()
		base := make([]search.Entry[messaging.ChatID], len(chats))
		for i, c := range chats {
			base[i] = search.Entry[messaging.ChatID]{ID: c.ID, Text: c.Name}
		}
		seed, ok := d.chats.Selected()
		d.search.SearchChats(base, seed, ok)
	case search.Messages:
		msgs := d.src.Messages(d.open)
		base := make([]search.Entry[messaging.MessageID], len(msgs))
		for i, m := range msgs {
			base[i] = search.Entry[messaging.MessageID]{ID: m.ID, Text: m.Text}
		}
		seed, ok := d.messages.Selected()
		d.search.SearchMessages(base, seed, ok)
	}
	d.focus.Focus(p.Focus())
	d.logger.Debug("search started", "panel", p)
	return Effects{}
}

// changeFocus moves focus. Leaving the searched panel for a panel with a
// different search target ends the session first.
func (d *Dispatcher) changeFocus(t focus.Target) {
	if !d.canFocus(t) {
		return
	}
	if p := d.search.Active(); p != search.Off && t != focus.None && search.PanelFor(t) != p {
		d.exitSearch()
	}
	d.focus.Focus(t)
}

func (d *Dispatcher) global(a action.Action) Effects {
	switch a.Kind {
	case action.Quit:
		return Effects{Quit: true}
	case action.TryQuit:
		if d.focus.Current() == focus.Prompt {
			return Effects{Forward: true}
		}
		return Effects{Quit: true}
	case action.ShowCommandGuide:
		d.guide = !d.guide
	case action.FocusChatList:
		d.changeFocus(focus.ChatList)
	case action.FocusChat:
		d.changeFocus(focus.Chat)
	case action.FocusPrompt:
		d.changeFocus(focus.Prompt)
	case action.UnfocusComponent:
		d.changeFocus(focus.None)
	case action.IncreaseChatListSize:
		d.layout.ChatListWidth += chatListStep
		d.layout = d.layout.clamp()
	case action.DecreaseChatListSize:
		d.layout.ChatListWidth -= chatListStep
		d.layout = d.layout.clamp()
	case action.IncreasePromptSize:
		d.layout.PromptHeight++
		d.layout = d.layout.clamp()
	case action.DecreasePromptSize:
		d.layout.PromptHeight--
		d.layout = d.layout.clamp()
	case action.Search:
		return d.activateSearch(d.search.SmartTarget(d.focus.Current()))
	case action.ChatListSearch:
		return d.activateSearch(search.Chats)
	case action.ChatWindowSearch:
		return d.activateSearch(search.Messages)
	case action.RestoreDefaultOrdering:
		d.search.Discard()
		d.order = ordering.Default
	}
	return Effects{}
}

// Submit turns the prompt text into a request according to the prompt
// mode. Blank text or no open chat produces nothing.
func (d *Dispatcher) Submit(text string) (messaging.Request, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !d.hasOpen {
		return messaging.Request{}, false
	}
	req := messaging.Request{Kind: messaging.Send, Chat: d.open, Text: text}
	switch d.mode {
	case Editing:
		req.Kind = messaging.Edit
		req.Message = d.target
	case Replying:
		req.Kind = messaging.Reply
		req.Message = d.target
	}
	d.resetMode()
	return req, true
}

func (d *Dispatcher) resetMode() {
	d.mode = Compose
	d.target = 0
}

// HandleUpdate reconciles interaction state with a change pushed by the
// messaging client.
func (d *Dispatcher) HandleUpdate(u messaging.Update) Effects {
	switch u.Kind {
	case messaging.MessagesDeleted:
		if !d.hasOpen || u.Chat != d.open {
			return Effects{}
		}
		gone := make(map[messaging.MessageID]bool, len(u.Messages))
		for _, id := range u.Messages {
			gone[id] = true
		}
		if s := d.search.Messages(); s != nil {
			s.Remove(func(id messaging.MessageID) bool { return gone[id] })
		}
		if id, ok := d.messages.Selected(); ok && gone[id] {
			d.messages.Clear()
		}
		if d.mode != Compose && gone[d.target] {
			wasEditing := d.mode == Editing
			d.resetMode()
			eff := Effects{Notice: "message was deleted"}
			if wasEditing {
				empty := ""
				eff.Prefill = &empty
			}
			return eff
		}
	case messaging.ChatRemoved:
		if s := d.search.Chats(); s != nil {
			s.Remove(func(id messaging.ChatID) bool { return id == u.Chat })
		}
		if id, ok := d.chats.Selected(); ok && id == u.Chat {
			d.chats.Clear()
		}
		if d.hasOpen && d.open == u.Chat {
			d.closeChat()
		}
	}
	return Effects{}
}

func (d *Dispatcher) closeChat() {
	if d.search.Active() == search.Messages {
		d.search.Discard()
	}
	d.hasOpen = false
	d.open = 0
	d.messages.Clear()
	d.resetMode()
	if t := d.focus.Current(); t == focus.Chat || t == focus.Prompt {
		d.focus.Unfocus()
	}
}

// Restore reopens a chat from a previous session without moving focus.
func (d *Dispatcher) Restore(id messaging.ChatID) Effects {
	if _, ok := messaging.FindChat(d.src.Chats(), id); !ok {
		return Effects{}
	}
	d.chats.Select(id)
	d.open, d.hasOpen = id, true
	return Effects{Requests: []messaging.Request{{Kind: messaging.OpenChat, Chat: id}}}
}
