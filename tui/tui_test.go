package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzus/teleterm/internal/dispatch"
)

func testOptions(splash bool) Options {
	client := newFakeClient()
	return Options{
		Client:     client,
		Dispatcher: dispatch.New(dispatch.Options{Source: client}),
		ShowSplash: splash,
	}
}

func TestNewMainModelScreens(t *testing.T) {
	if m := NewMainModel(testOptions(true)); m.currentScreen != screenSplash {
		t.Errorf("expected splash first, got %d", m.currentScreen)
	}
	if m := NewMainModel(testOptions(false)); m.currentScreen != screenMain {
		t.Errorf("expected main screen without splash, got %d", m.currentScreen)
	}
}

func TestMainModelInit(t *testing.T) {
	if NewMainModel(testOptions(true)).Init() == nil {
		t.Error("expected Init to return a command")
	}
}

func TestMainModelWindowSize(t *testing.T) {
	m := NewMainModel(testOptions(true))
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	result := updated.(MainModel)

	if result.width != 80 || result.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", result.width, result.height)
	}
	if !result.chat.ready {
		t.Error("main screen should be sized while the splash shows")
	}
	if cmd != nil {
		t.Error("expected no command from WindowSizeMsg")
	}
}

func TestSplashCtrlCQuits(t *testing.T) {
	m := NewMainModel(testOptions(true))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected Quit command from ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestSwitchScreenToMain(t *testing.T) {
	m := NewMainModel(testOptions(true))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, cmd := updated.(MainModel).Update(switchScreenMsg{target: screenMain})
	result := updated.(MainModel)

	if result.currentScreen != screenMain {
		t.Errorf("expected main screen, got %d", result.currentScreen)
	}
	if cmd == nil {
		t.Error("expected main screen Init on switch")
	}

	_, cmd = result.Update(switchScreenMsg{target: screenMain})
	if cmd != nil {
		t.Error("a second switch must not re-run Init")
	}
}

func TestMainModelRoutesKeysToMain(t *testing.T) {
	m := NewMainModel(testOptions(false))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.(MainModel).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	result := updated.(MainModel)

	if got := result.chat.disp.Focus().String(); got != "chat_list" {
		t.Errorf("expected chat list focus, got %s", got)
	}
}
