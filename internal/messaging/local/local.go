// Package local is a messaging client backed by the JSON chat store. Edits
// made to the store file by other processes are picked up with fsnotify and
// turned into updates.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/store"
)

const updateBuffer = 256

// Client implements messaging.Client on top of a store.Store.
type Client struct {
	store   *store.Store
	self    string
	copy    func(string) error
	logger  *log.Logger
	updates chan messaging.Update
	done    chan struct{}
	once    sync.Once

	watch   bool
	watcher *fsnotify.Watcher

	// mu serializes mutations with reloads so a write of our own is never
	// reported back as an external change.
	mu   sync.Mutex
	snap snapshot
}

type Option func(*Client)

// WithSelf sets the sender name of outgoing messages.
func WithSelf(name string) Option {
	return func(c *Client) { c.self = name }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(c *Client) { c.copy = fn }
}

// WithoutWatcher disables watching the store file.
func WithoutWatcher() Option {
	return func(c *Client) { c.watch = false }
}

// New wraps st. Unless disabled, the store's directory is watched for
// external changes until Close.
func New(st *store.Store, opts ...Option) (*Client, error) {
	c := &Client{
		store:   st,
		self:    "me",
		copy:    clipboard.WriteAll,
		logger:  log.With("component", "local"),
		updates: make(chan messaging.Update, updateBuffer),
		done:    make(chan struct{}),
		watch:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snap = take(st)

	if c.watch {
		dir := filepath.Dir(st.Path())
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		c.watcher = w
		go c.watchLoop()
	}
	return c, nil
}

func (c *Client) Chats() []messaging.Chat { return c.store.Chats() }

func (c *Client) Messages(chat messaging.ChatID) []messaging.Message {
	return c.store.Messages(chat)
}

func (c *Client) Updates() <-chan messaging.Update { return c.updates }

// Close stops the watcher. Pending updates stay readable.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		if c.watcher != nil {
			err = c.watcher.Close()
		}
	})
	return err
}

// Do applies req to the store, saves it and emits the resulting updates.
func (c *Client) Do(ctx context.Context, req messaging.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Kind == messaging.Copy {
		return c.copyMessage(req)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.apply(req); err != nil {
		return fmt.Errorf("%s: %w", req.Kind, err)
	}
	if err := c.store.Save(); err != nil {
		return err
	}
	next := take(c.store)
	c.emit(diff(c.snap, next)...)
	c.snap = next
	return nil
}

func (c *Client) apply(req messaging.Request) error {
	switch req.Kind {
	case messaging.OpenChat:
		return c.store.MarkRead(req.Chat)
	case messaging.Send:
		_, err := c.store.Append(req.Chat, c.self, req.Text, true, 0)
		return err
	case messaging.Reply:
		if _, ok := messaging.FindMessage(c.store.Messages(req.Chat), req.Message); !ok {
			return fmt.Errorf("message %d: %w", req.Message, messaging.ErrNotFound)
		}
		_, err := c.store.Append(req.Chat, c.self, req.Text, true, req.Message)
		return err
	case messaging.Edit:
		_, err := c.store.Edit(req.Chat, req.Message, req.Text)
		return err
	case messaging.Delete:
		if len(c.store.Delete(req.Chat, req.Message)) == 0 {
			return fmt.Errorf("message %d: %w", req.Message, messaging.ErrNotFound)
		}
		return nil
	default:
		return fmt.Errorf("unsupported request %v", req.Kind)
	}
}

func (c *Client) copyMessage(req messaging.Request) error {
	text := req.Text
	if text == "" {
		m, ok := messaging.FindMessage(c.store.Messages(req.Chat), req.Message)
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

func (c *Client) emit(updates ...messaging.Update) {
	for _, u := range updates {
		select {
		case c.updates <- u:
		case <-c.done:
			return
		}
	}
}

func (c *Client) watchLoop() {
	target := filepath.Clean(c.store.Path())
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			c.refresh()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("watch error", "err", err)
		case <-c.done:
			return
		}
	}
}

// refresh reloads the store file and reports what changed since the last
// snapshot.
func (c *Client) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Reload(); err != nil {
		// Usually a write in progress; the next event retries.
		c.logger.Debug("reload failed", "err", err)
		return
	}
	next := take(c.store)
	changes := diff(c.snap, next)
	c.snap = next
	if len(changes) > 0 {
		c.logger.Debug("store changed on disk", "updates", len(changes))
	}
	c.emit(changes...)
}
