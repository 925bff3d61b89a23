package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzus/teleterm/internal/messaging"
)

// Messages produced by the messaging client and the timers the main screen
// arms.
type updateMsg struct {
	update messaging.Update
}

type clientClosedMsg struct{}

type requestDoneMsg struct {
	req messaging.Request
	err error
}

type chordTimeoutMsg struct {
	gen uint64
}

type clearNoticeMsg struct {
	seq int
}

const noticeDuration = 3 * time.Second

// waitForUpdate blocks on the client's update stream and returns the next
// update. Standard Bubble Tea pattern for channel-based streaming.
func waitForUpdate(ch <-chan messaging.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return clientClosedMsg{}
		}
		return updateMsg{update: u}
	}
}

// doRequest runs one request against the client off the UI goroutine.
func doRequest(client messaging.Client, req messaging.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return requestDoneMsg{req: req, err: client.Do(ctx, req)}
	}
}

func armChordTimer(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return chordTimeoutMsg{gen: gen}
	})
}

func clearNoticeAfter(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}
