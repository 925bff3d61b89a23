package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/guzus/teleterm/internal/action"
	"github.com/guzus/teleterm/internal/dispatch"
	"github.com/guzus/teleterm/internal/focus"
	"github.com/guzus/teleterm/internal/keymap"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/search"
	"github.com/guzus/teleterm/internal/state"
)

// ChatModel is the main screen: chat list, chat window and prompt. All
// interaction state lives in the dispatcher; the model turns its effects
// into commands and draws its views.
type ChatModel struct {
	client   messaging.Client
	disp     *dispatch.Dispatcher
	state    *state.State
	timeout  time.Duration
	md       *markdownRenderer
	logger   *log.Logger
	initial  dispatch.Effects
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// listOffset is the first visible chat row. shownChat is the chat the
	// viewport content belongs to.
	listOffset int
	shownChat  messaging.ChatID
	shownOpen  bool

	width    int
	height   int
	ready    bool
	inflight int
	notice   string
	isError  bool
	noticeID int
	closed   bool
}

const (
	headerHeight = 1
	footerHeight = 1
	borderSize   = 2
	minListWidth = 16
)

func NewChatModel(opts Options) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Write a message..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4096
	ta.Prompt = ""
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorBlue)

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	m := ChatModel{
		client:  opts.Client,
		disp:    opts.Dispatcher,
		state:   opts.State,
		timeout: timeout,
		md:      newMarkdownRenderer(opts.Markdown, opts.MarkdownStyle),
		logger:  log.With("component", "tui"),
		input:   ta,
		spinner: sp,
	}
	if m.state != nil && m.state.LastChatID != 0 {
		m.initial = m.disp.Restore(messaging.ChatID(m.state.LastChatID))
	}
	return m
}

func (m ChatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, waitForUpdate(m.client.Updates())}
	for _, req := range m.initial.Requests {
		cmds = append(cmds, doRequest(m.client, req, m.timeout))
	}
	return tea.Batch(cmds...)
}

func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		c, ok := chordFromKey(msg)
		if !ok {
			if msg.Type == tea.KeyRunes {
				return m.apply(m.disp.HandleText(string(msg.Runes)), msg)
			}
			if m.disp.Focus() == focus.Prompt {
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m.apply(m.disp.HandleKey(c), msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case chordTimeoutMsg:
		return m.apply(m.disp.HandleTimeout(msg.gen), nil)

	case updateMsg:
		var cmd tea.Cmd
		m, cmd = m.apply(m.disp.HandleUpdate(msg.update), nil)
		return m, tea.Batch(cmd, waitForUpdate(m.client.Updates()))

	case clientClosedMsg:
		m.closed = true
		return m.setNotice("backend disconnected", true)

	case requestDoneMsg:
		m.inflight = max(m.inflight-1, 0)
		if msg.err != nil {
			m.logger.Error("request failed", "req", msg.req, "err", msg.err)
			text := msg.err.Error()
			if errors.Is(msg.err, messaging.ErrNotFound) {
				text = msg.req.Kind.String() + ": no longer exists"
			}
			return m.setNotice(text, true)
		}
		if msg.req.Kind == messaging.Copy {
			return m.setNotice("copied to clipboard", false)
		}
		m.refresh()
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeID {
			m.notice = ""
			m.isError = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply carries out the dispatcher's effects. key is the event that
// produced them, forwarded to the prompt when asked.
func (m ChatModel) apply(eff dispatch.Effects, key tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	if eff.Prefill != nil {
		m.input.SetValue(*eff.Prefill)
		m.input.CursorEnd()
	}
	if eff.Forward && key != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		cmds = append(cmds, cmd)
	}
	if eff.Submit {
		if req, ok := m.disp.Submit(m.input.Value()); ok {
			m.input.Reset()
			eff.Requests = append(eff.Requests, req)
		}
	}
	for _, req := range eff.Requests {
		if m.closed {
			break
		}
		m.inflight++
		cmds = append(cmds, doRequest(m.client, req, m.timeout))
		if m.inflight == 1 {
			cmds = append(cmds, m.spinner.Tick)
		}
	}
	if eff.Arm != 0 {
		cmds = append(cmds, armChordTimer(m.disp.Timeout(), eff.Arm))
	}
	if eff.Notice != "" {
		var cmd tea.Cmd
		m, cmd = m.setNotice(eff.Notice, false)
		cmds = append(cmds, cmd)
	}
	if eff.Quit {
		m.saveState()
		return m, tea.Quit
	}

	if m.disp.Focus() == focus.Prompt {
		cmds = append(cmds, m.input.Focus())
	} else {
		m.input.Blur()
	}
	m.resize()
	return m, tea.Batch(cmds...)
}

func (m ChatModel) setNotice(text string, isError bool) (ChatModel, tea.Cmd) {
	m.noticeID++
	m.notice = text
	m.isError = isError
	return m, clearNoticeAfter(m.noticeID)
}

// saveState remembers the open chat, layout and ordering for next start.
func (m ChatModel) saveState() {
	if m.state == nil {
		return
	}
	m.state.LastChatID = 0
	if id, ok := m.disp.OpenChat(); ok {
		m.state.LastChatID = int64(id)
	}
	l := m.disp.Layout()
	m.state.ChatListWidth = l.ChatListWidth
	m.state.PromptHeight = l.PromptHeight
	m.state.ChatOrder = string(m.disp.Chats().Order)
	if err := m.state.Save(); err != nil {
		m.logger.Warn("saving state", "err", err)
	}
}

// Panel geometry, derived from the terminal size and the dispatcher layout.
func (m ChatModel) listWidth() int {
	w := m.width * m.disp.Layout().ChatListWidth / 100
	return min(max(w, minListWidth), m.width)
}

func (m ChatModel) promptLines() int {
	mode, _ := m.disp.PromptMode()
	n := m.disp.Layout().PromptHeight
	if mode != dispatch.Compose {
		n++
	}
	return n
}

func (m ChatModel) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, 3)
}

func (m *ChatModel) resize() {
	if !m.ready {
		return
	}
	rightWidth := max(m.width-m.listWidth()-borderSize*2, 10)
	m.input.SetWidth(rightWidth)
	m.input.SetHeight(m.disp.Layout().PromptHeight)

	vpHeight := max(m.bodyHeight()-borderSize-1-(m.promptLines()+borderSize), 1)
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(rightWidth, vpHeight)
	} else {
		m.viewport.Width = rightWidth
		m.viewport.Height = vpHeight
	}
	m.refresh()
}

// refresh re-renders the chat window and moves both panels only as far as
// needed to keep their selection on screen. Without a selection the chat
// window follows new messages while it sits at the bottom, and otherwise
// stays where it is.
func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}
	chats := m.disp.Chats()
	m.listOffset = keepVisible(m.listOffset, chats.Selected, len(chats.Rows), chatsPerPage(chats, m.listHeight()))

	id, open := m.disp.OpenChat()
	switched := id != m.shownChat || open != m.shownOpen
	m.shownChat, m.shownOpen = id, open

	atBottom := m.viewport.AtBottom()
	content, selectedLine := renderMessages(m.disp.Messages(), m.md, m.viewport.Width)
	m.viewport.SetContent(content)
	switch {
	case selectedLine >= 0:
		if selectedLine < m.viewport.YOffset || selectedLine >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(selectedLine)
		}
	case switched || atBottom:
		m.viewport.GotoBottom()
	}
}

func (m ChatModel) listHeight() int {
	return m.bodyHeight() - borderSize
}

func (m ChatModel) View() string {
	if !m.ready {
		return ""
	}
	if m.disp.GuideOpen() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, renderGuide(m.disp.Guide()))
	}

	current := m.disp.Focus()
	frame := func(t focus.Target) lipgloss.Style {
		if current == t {
			return focusedPanelStyle
		}
		return panelStyle
	}

	listW := m.listWidth()
	list := frame(focus.ChatList).
		Width(listW - borderSize).
		Height(m.listHeight()).
		Render(renderChatList(m.disp.Chats(), listW-borderSize, m.listHeight(), m.listOffset))

	rightW := m.width - listW
	messages := m.disp.Messages()
	chatWin := frame(focus.Chat).
		Width(rightW - borderSize).
		Render(lipgloss.JoinVertical(lipgloss.Left, chatTitle(messages, rightW-borderSize), m.viewport.View()))

	promptParts := []string{}
	mode, target := m.disp.PromptMode()
	if banner := promptBanner(mode, target, rightW-borderSize); banner != "" {
		promptParts = append(promptParts, banner)
	}
	promptParts = append(promptParts, m.input.View())
	prompt := frame(focus.Prompt).
		Width(rightW - borderSize).
		Render(lipgloss.JoinVertical(lipgloss.Left, promptParts...))

	right := lipgloss.JoinVertical(lipgloss.Left, chatWin, prompt)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, right),
		m.footer(),
	)
}

func (m ChatModel) header() string {
	left := headerStyle.Render(" teleterm ")
	info := fmt.Sprintf(" %d chats ", len(m.client.Chats()))
	if m.inflight > 0 {
		info = fmt.Sprintf(" %s %d pending |%s", m.spinner.View(), m.inflight, info)
	}
	right := headerStyle.Render(info)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + headerStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m ChatModel) footer() string {
	parts := []string{"focus: " + m.disp.Focus().String()}
	if p := m.disp.SearchPanel(); p != search.Off {
		parts = append(parts, "searching "+p.String())
	}
	if pending := m.disp.Pending(); len(pending) > 0 {
		parts = append(parts, pending.String()+" …")
	}
	if mode, _ := m.disp.PromptMode(); mode != dispatch.Compose {
		parts = append(parts, mode.String())
	}
	left := strings.Join(parts, " | ")

	right := ""
	if keys := m.disp.Table().Keys(keymap.Global, action.ShowCommandGuide); len(keys) > 0 {
		right = keys[0].String() + ": commands"
	}
	switch {
	case m.notice != "" && m.isError:
		right = errorMsgStyle.Render(m.notice)
	case m.notice != "":
		right = noticeStyle.Render(m.notice)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
