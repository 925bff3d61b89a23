// Package bridge is a messaging client that talks to an external helper
// process over JSON lines on its stdin and stdout.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/guzus/teleterm/internal/messaging"
)

// ErrClosed is returned for requests made after the helper went away.
var ErrClosed = errors.New("bridge closed")

const (
	updateBuffer = 256
	maxLine      = 1024 * 1024
	closeGrace   = 3 * time.Second
)

// Client implements messaging.Client against a helper process.
type Client struct {
	w       io.Writer
	wmu     sync.Mutex
	shut    func() error
	copy    func(string) error
	logger  *log.Logger
	updates chan messaging.Update

	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}

	mu       sync.Mutex
	chats    []messaging.Chat
	messages map[messaging.ChatID][]messaging.Message
	pending  map[string]chan error
	err      error
}

type Option func(*Client)

// WithClipboard replaces the system clipboard writer used by copy requests.
func WithClipboard(fn func(string) error) Option {
	return func(c *Client) { c.copy = fn }
}

// Start spawns the helper found by Find(command) and connects to it.
func Start(ctx context.Context, command string, args []string, opts ...Option) (*Client, error) {
	path, err := Find(command)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge: %w", err)
	}

	c := newClient(stdout, stdin, opts...)
	c.logger.Info("bridge started", "path", path, "pid", cmd.Process.Pid)
	go c.logStderr(stderr)
	c.shut = func() error {
		stdin.Close()
		select {
		case <-c.done:
		case <-time.After(closeGrace):
			c.logger.Warn("bridge did not exit, killing it")
			cmd.Process.Kill()
		}
		err := cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
			return nil
		}
		return err
	}
	return c, nil
}

// newClient reads events from r and writes commands to w.
func newClient(r io.Reader, w io.Writer, opts ...Option) *Client {
	c := &Client{
		w:        w,
		shut:     func() error { return nil },
		copy:     clipboard.WriteAll,
		logger:   log.With("component", "bridge"),
		updates:  make(chan messaging.Update, updateBuffer),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
		messages: make(map[messaging.ChatID][]messaging.Message),
		pending:  make(map[string]chan error),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop(r)
	return c
}

func (c *Client) Chats() []messaging.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]messaging.Chat, len(c.chats))
	copy(out, c.chats)
	return out
}

func (c *Client) Messages(chat messaging.ChatID) []messaging.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.messages[chat]
	out := make([]messaging.Message, len(src))
	copy(out, src)
	return out
}

// Updates is closed once the helper's output ends.
func (c *Client) Updates() <-chan messaging.Update { return c.updates }

// Done is closed once the helper's output ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err reports why the stream ended, if it has.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close asks the helper to exit and waits for it.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closing)
		err = c.shut()
	})
	return err
}

// Sync asks the helper to resend its chat list and waits until it has.
func (c *Client) Sync(ctx context.Context) error {
	return c.roundTrip(ctx, Command{Op: opSync})
}

// Do sends req and waits for the helper's result. Copy requests are served
// from the cached history without a round trip.
func (c *Client) Do(ctx context.Context, req messaging.Request) error {
	if req.Kind == messaging.Copy {
		return c.copyMessage(req)
	}
	if err := c.roundTrip(ctx, commandFor("", req)); err != nil {
		return fmt.Errorf("%s: %w", req.Kind, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, cmd Command) error {
	cmd.ID = uuid.NewString()
	result := make(chan error, 1)

	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[cmd.ID] = result
	c.mu.Unlock()

	if err := c.send(cmd); err != nil {
		c.forget(cmd.ID)
		return err
	}
	c.logger.Debug("request sent", "id", cmd.ID, "op", cmd.Op)

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		c.forget(cmd.ID)
		return ctx.Err()
	}
}

func (c *Client) send(cmd Command) error {
	line, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}
	line = append(line, '\n')

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(line); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return nil
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) copyMessage(req messaging.Request) error {
	text := req.Text
	if text == "" {
		m, ok := messaging.FindMessage(c.Messages(req.Chat), req.Message)
		if !ok {
			return fmt.Errorf("copy: message %d: %w", req.Message, messaging.ErrNotFound)
		}
		text = m.Text
	}
	if err := c.copy(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

func (c *Client) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	for scanner.Scan() {
		ev, ok, err := decodeEvent(scanner.Text())
		if err != nil {
			c.logger.Warn("skipping line", "err", err)
			continue
		}
		if !ok {
			continue
		}
		if !c.emit(c.apply(ev)...) {
			break
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.finish(err)
}

// finish fails every pending request and closes the update stream.
func (c *Client) finish(cause error) {
	c.mu.Lock()
	c.err = cause
	pending := c.pending
	c.pending = make(map[string]chan error)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- ErrClosed
	}
	c.logger.Info("bridge stream ended", "err", cause)
	close(c.updates)
	close(c.done)
}

func (c *Client) emit(updates ...messaging.Update) bool {
	for _, u := range updates {
		select {
		case c.updates <- u:
		case <-c.closing:
			return false
		}
	}
	return true
}

// apply folds ev into the cache and returns the updates it implies.
func (c *Client) apply(ev Event) []messaging.Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case EventResult:
		ch, ok := c.pending[ev.ID]
		if !ok {
			c.logger.Debug("result for unknown request", "id", ev.ID)
			return nil
		}
		delete(c.pending, ev.ID)
		if ev.OK {
			ch <- nil
		} else {
			ch <- resultError(ev.Error)
		}
		return nil

	case EventChats:
		var out []messaging.Update
		seen := make(map[messaging.ChatID]bool, len(ev.Chats))
		for _, chat := range ev.Chats {
			seen[chat.ID] = true
		}
		for _, old := range c.chats {
			if !seen[old.ID] {
				delete(c.messages, old.ID)
				out = append(out, messaging.Update{Kind: messaging.ChatRemoved, Chat: old.ID})
			}
		}
		c.chats = append([]messaging.Chat(nil), ev.Chats...)
		c.sortChats()
		for _, chat := range c.chats {
			out = append(out, messaging.Update{Kind: messaging.ChatUpdated, Chat: chat.ID})
		}
		return out

	case EventMessages:
		c.messages[ev.ChatID] = append([]messaging.Message(nil), ev.Messages...)
		return []messaging.Update{{Kind: messaging.ChatUpdated, Chat: ev.ChatID}}

	case EventNewMessage:
		m := *ev.Message
		c.messages[m.ChatID] = append(c.messages[m.ChatID], m)
		return []messaging.Update{{Kind: messaging.NewMessage, Chat: m.ChatID, Message: m}}

	case EventMessageEdited:
		m := *ev.Message
		msgs := c.messages[m.ChatID]
		for i := range msgs {
			if msgs[i].ID == m.ID {
				msgs[i] = m
			}
		}
		return []messaging.Update{{Kind: messaging.MessageEdited, Chat: m.ChatID, Message: m}}

	case EventMessagesDeleted:
		drop := make(map[messaging.MessageID]bool, len(ev.MessageIDs))
		for _, id := range ev.MessageIDs {
			drop[id] = true
		}
		var kept []messaging.Message
		for _, m := range c.messages[ev.ChatID] {
			if !drop[m.ID] {
				kept = append(kept, m)
			}
		}
		c.messages[ev.ChatID] = kept
		return []messaging.Update{{
			Kind:     messaging.MessagesDeleted,
			Chat:     ev.ChatID,
			Messages: append([]messaging.MessageID(nil), ev.MessageIDs...),
			Revoke:   ev.Revoke,
		}}

	case EventChatUpdated:
		chat := *ev.Chat
		replaced := false
		for i := range c.chats {
			if c.chats[i].ID == chat.ID {
				c.chats[i] = chat
				replaced = true
			}
		}
		if !replaced {
			c.chats = append(c.chats, chat)
		}
		c.sortChats()
		return []messaging.Update{{Kind: messaging.ChatUpdated, Chat: chat.ID}}

	case EventChatRemoved:
		for i := range c.chats {
			if c.chats[i].ID == ev.ChatID {
				c.chats = append(c.chats[:i], c.chats[i+1:]...)
				break
			}
		}
		delete(c.messages, ev.ChatID)
		return []messaging.Update{{Kind: messaging.ChatRemoved, Chat: ev.ChatID}}
	}
	return nil
}

// sortChats keeps the cache most recent first, the helper's order breaking
// ties.
func (c *Client) sortChats() {
	sort.SliceStable(c.chats, func(i, j int) bool {
		return c.chats[i].LastActivity.After(c.chats[j].LastActivity)
	})
}

func resultError(msg string) error {
	if msg == "" {
		msg = "request failed"
	}
	if msg == "not found" {
		return messaging.ErrNotFound
	}
	return errors.New(msg)
}

func (c *Client) logStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c.logger.Warn("bridge stderr", "line", scanner.Text())
	}
}
