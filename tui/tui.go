package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzus/teleterm/internal/dispatch"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/state"
)

type screen int

const (
	screenSplash screen = iota
	screenMain
)

type switchScreenMsg struct {
	target screen
}

// Options wires the UI to its collaborators.
type Options struct {
	Client     messaging.Client
	Dispatcher *dispatch.Dispatcher
	// State is updated and saved on quit when non-nil.
	State          *state.State
	RequestTimeout time.Duration
	ShowSplash     bool
	Markdown       bool
	MarkdownStyle  string
}

// MainModel routes between the splash and main screens.
type MainModel struct {
	currentScreen screen
	width         int
	height        int
	splash        SplashModel
	chat          ChatModel
}

func NewMainModel(opts Options) MainModel {
	m := MainModel{
		currentScreen: screenMain,
		splash:        NewSplashModel(),
		chat:          NewChatModel(opts),
	}
	if opts.ShowSplash {
		m.currentScreen = screenSplash
	}
	return m
}

func (m MainModel) Init() tea.Cmd {
	if m.currentScreen == screenSplash {
		return m.splash.Init()
	}
	return m.chat.Init()
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.splash, _ = m.splash.Update(msg)
		m.chat, _ = m.chat.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if m.currentScreen == screenSplash && msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case switchScreenMsg:
		if m.currentScreen == msg.target {
			return m, nil
		}
		m.currentScreen = msg.target
		if msg.target == screenMain {
			return m, m.chat.Init()
		}
		return m, nil

	case updateMsg, clientClosedMsg, requestDoneMsg:
		// Client traffic belongs to the main screen even while the splash
		// is shown.
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case screenSplash:
		m.splash, cmd = m.splash.Update(msg)
	case screenMain:
		m.chat, cmd = m.chat.Update(msg)
	}

	return m, cmd
}

func (m MainModel) View() string {
	switch m.currentScreen {
	case screenSplash:
		return m.splash.View()
	case screenMain:
		return m.chat.View()
	default:
		return ""
	}
}
