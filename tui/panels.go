package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/guzus/teleterm/internal/dispatch"
	"github.com/guzus/teleterm/internal/keymap"
	"github.com/guzus/teleterm/internal/messaging"
)

const chatRowHeight = 2

// highlight truncates text to width cells and styles the runes at matched.
func highlight(text string, matched []int, width int, base lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	t := runewidth.Truncate(text, width, "…")
	if len(matched) == 0 {
		return base.Render(t)
	}
	limit := utf8.RuneCountInString(t)
	if t != text {
		limit--
	}
	keep := make([]int, 0, len(matched))
	for _, i := range matched {
		if i < limit {
			keep = append(keep, i)
		}
	}
	return lipgloss.StyleRunes(t, keep, matchStyle.Inherit(base), base)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// keepVisible returns the first visible row for a list of n rows showing
// perPage at a time. The offset only moves to bring selected on screen; with
// no selection it is just clamped to the list.
func keepVisible(offset, selected, n, perPage int) int {
	if selected >= 0 {
		if selected < offset {
			offset = selected
		}
		if selected >= offset+perPage {
			offset = selected - perPage + 1
		}
	}
	return min(max(offset, 0), max(n-perPage, 0))
}

// chatsPerPage is how many chat rows fit below the panel title and search
// bar.
func chatsPerPage(v dispatch.ChatsView, height int) int {
	header := 1
	if v.Searching {
		header++
	}
	return max((height-header)/chatRowHeight, 1)
}

// renderChatList draws the chat list inside a width x height area, starting
// at row offset.
func renderChatList(v dispatch.ChatsView, width, height, offset int) string {
	lines := []string{panelTitleStyle.Render(runewidth.Truncate("Chats · "+v.Order.Label(), width, "…"))}
	if v.Searching {
		lines = append(lines, searchBarStyle.Render(runewidth.Truncate("/"+v.Query, width, "…")))
	}

	if len(v.Rows) == 0 {
		empty := "no chats"
		if v.Searching {
			empty = "no matches"
		}
		lines = append(lines, chatPreviewStyle.Render(empty))
		return strings.Join(lines, "\n")
	}

	perPage := chatsPerPage(v, height)
	start := min(max(offset, 0), max(len(v.Rows)-perPage, 0))
	for i := start; i < len(v.Rows) && i < start+perPage; i++ {
		lines = append(lines, chatRow(v.Rows[i], i == v.Selected, width)...)
	}
	return strings.Join(lines, "\n")
}

func chatRow(row dispatch.ChatRow, selected bool, width int) []string {
	c := row.Chat
	marker, style := "  ", chatNameStyle
	if selected {
		marker, style = "▌ ", chatSelectedStyle
	}
	var badge, dot string
	if c.Unread > 0 {
		badge = unreadStyle.Render(strconv.Itoa(c.Unread))
	}
	if c.Online {
		dot = onlineStyle.Render("●") + " "
	}

	nameWidth := width - lipgloss.Width(marker) - lipgloss.Width(dot) - lipgloss.Width(badge) - 1
	left := marker + dot + highlight(c.Name, row.Matched, nameWidth, style)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(badge), 1)
	top := left + strings.Repeat(" ", gap) + badge

	preview := runewidth.Truncate(firstLine(c.LastMessage), max(width-2, 0), "…")
	if c.Muted {
		preview = runewidth.Truncate("(muted) "+firstLine(c.LastMessage), max(width-2, 0), "…")
	}
	return []string{top, "  " + chatPreviewStyle.Render(preview)}
}

// messageBlock renders one message with its header and reply quote.
func messageBlock(row dispatch.MessageRow, msgs []messaging.Message, selected bool, md *markdownRenderer, width int) string {
	m := row.Message
	sender := senderStyle
	if m.Outgoing {
		sender = outgoingSenderStyle
	}
	header := sender.Render(m.Sender)
	meta := m.Date.Format("15:04")
	if m.Edited {
		meta += " · edited"
	}
	header += " " + messageMetaStyle.Render(meta)

	var parts []string
	parts = append(parts, header)
	if m.ReplyTo != 0 {
		quoted := "deleted message"
		if orig, ok := messaging.FindMessage(msgs, m.ReplyTo); ok {
			quoted = orig.Sender + ": " + firstLine(orig.Text)
		}
		parts = append(parts, messageMetaStyle.Render(runewidth.Truncate("↪ "+quoted, width, "…")))
	}

	bodyWidth := max(width-2, 10)
	if len(row.Matched) > 0 {
		parts = append(parts, lipgloss.NewStyle().Width(bodyWidth).Render(
			lipgloss.StyleRunes(m.Text, row.Matched, matchStyle, lipgloss.NewStyle()),
		))
	} else {
		parts = append(parts, md.render(m.Text, bodyWidth))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if selected {
		block = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(colorBlue).
			Render(messageSelectedStyle.Render(block))
	} else {
		block = lipgloss.NewStyle().PaddingLeft(1).Render(block)
	}
	return block
}

// renderMessages returns the chat window content and the line on which the
// selected message starts, or -1.
func renderMessages(v dispatch.MessagesView, md *markdownRenderer, width int) (string, int) {
	if !v.Open {
		return chatPreviewStyle.Render("Select a chat and press enter."), -1
	}
	if len(v.Rows) == 0 {
		empty := "No messages yet."
		if v.Searching {
			empty = "No messages match."
		}
		return chatPreviewStyle.Render(empty), -1
	}

	msgs := make([]messaging.Message, len(v.Rows))
	for i, r := range v.Rows {
		msgs[i] = r.Message
	}

	var b strings.Builder
	line, selectedLine := 0, -1
	for i, row := range v.Rows {
		if i == v.Selected {
			selectedLine = line
		}
		block := messageBlock(row, msgs, i == v.Selected, md, width)
		b.WriteString(block)
		b.WriteString("\n\n")
		line += lipgloss.Height(block) + 1
	}
	return strings.TrimRight(b.String(), "\n"), selectedLine
}

func chatTitle(v dispatch.MessagesView, width int) string {
	if !v.Open {
		return panelTitleStyle.Render("No chat open")
	}
	title := v.Chat.Name
	if v.Chat.Online {
		title += " · online"
	}
	if v.Searching {
		title += "  /" + v.Query
	}
	return panelTitleStyle.Render(runewidth.Truncate(title, width, "…"))
}

func promptBanner(mode dispatch.PromptMode, target messaging.Message, width int) string {
	var label string
	switch mode {
	case dispatch.Editing:
		label = "editing: "
	case dispatch.Replying:
		label = "replying to " + target.Sender + ": "
	default:
		return ""
	}
	return bannerStyle.Render(runewidth.Truncate(label+firstLine(target.Text), max(width-2, 0), "…"))
}

// renderGuide lists bindings grouped by scope.
func renderGuide(bindings []keymap.Binding) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Commands"))
	b.WriteString("\n")

	var scope keymap.Scope
	for _, bd := range bindings {
		if bd.Scope != scope {
			scope = bd.Scope
			b.WriteString("\n")
			b.WriteString(messageMetaStyle.Render(string(scope)))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", guideKeyStyle.Render(bd.Keys.String()), bd.Description)
	}
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render("esc: close"))
	return guideStyle.Render(b.String())
}
