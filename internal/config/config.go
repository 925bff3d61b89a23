// Package config locates the configuration directory and loads the
// application settings and the keymap from it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvConfigHome overrides the configuration directory.
const EnvConfigHome = "TELETERM_CONFIG_HOME"

// ErrConfig marks configuration problems that must stop startup.
var ErrConfig = errors.New("invalid configuration")

const (
	BackendLocal  = "local"
	BackendBridge = "bridge"
)

// Config holds the settings read from app.toml.
type Config struct {
	SequenceTimeoutMS int      `toml:"sequence_timeout_ms"`
	RequestTimeoutMS  int      `toml:"request_timeout_ms"`
	ChatListWidth     int      `toml:"chat_list_width"`
	PromptHeight      int      `toml:"prompt_height"`
	LogLevel          string   `toml:"log_level"`
	LogFile           string   `toml:"log_file"`
	Backend           string   `toml:"backend"`
	StorePath         string   `toml:"store_path"`
	BridgeCommand     string   `toml:"bridge_command"`
	BridgeArgs        []string `toml:"bridge_args"`
	ShowSplash        bool     `toml:"show_splash"`
	RenderMarkdown    bool     `toml:"render_markdown"`

	// Dir is the directory the configuration was read from.
	Dir string `toml:"-"`
}

// Default returns the built-in settings for dir.
func Default(dir string) Config {
	return Config{
		SequenceTimeoutMS: 1000,
		RequestTimeoutMS:  10000,
		ChatListWidth:     30,
		PromptHeight:      1,
		LogLevel:          "info",
		LogFile:           filepath.Join(dir, "teleterm.log"),
		Backend:           BackendLocal,
		StorePath:         filepath.Join(dir, "chats.json"),
		ShowSplash:        true,
		RenderMarkdown:    true,
		Dir:               dir,
	}
}

// SequenceTimeout is the idle window for multi-chord bindings.
func (c Config) SequenceTimeout() time.Duration {
	return time.Duration(c.SequenceTimeoutMS) * time.Millisecond
}

// RequestTimeout bounds a single messaging request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Dir returns the configuration directory: $TELETERM_CONFIG_HOME when it
// names a directory, otherwise teleterm under the user config directory
// (~/.config on macOS as well).
func Dir() (string, error) {
	if d := os.Getenv(EnvConfigHome); d != "" {
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			return d, nil
		}
		log.With("component", "config").Warn("ignoring config home, not a directory", "env", EnvConfigHome, "path", d)
	}

	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", "teleterm"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, "teleterm"), nil
}

// Load reads app.toml from dir over the defaults. A missing file is not an
// error.
func Load(dir string) (Config, error) {
	cfg := Default(dir)
	path := filepath.Join(dir, "app.toml")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %q: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	cfg.Dir = dir
	cfg.LogFile = resolve(dir, cfg.LogFile)
	cfg.StorePath = resolve(dir, cfg.StorePath)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(dir, p)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs error
	if c.SequenceTimeoutMS <= 0 {
		errs = errors.Join(errs, fmt.Errorf("sequence_timeout_ms must be positive, got %d", c.SequenceTimeoutMS))
	}
	if c.RequestTimeoutMS <= 0 {
		errs = errors.Join(errs, fmt.Errorf("request_timeout_ms must be positive, got %d", c.RequestTimeoutMS))
	}
	if c.ChatListWidth < 10 || c.ChatListWidth > 60 {
		errs = errors.Join(errs, fmt.Errorf("chat_list_width must be between 10 and 60, got %d", c.ChatListWidth))
	}
	if c.PromptHeight < 1 || c.PromptHeight > 10 {
		errs = errors.Join(errs, fmt.Errorf("prompt_height must be between 1 and 10, got %d", c.PromptHeight))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = errors.Join(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.Backend {
	case BackendLocal, BackendBridge:
	default:
		errs = errors.Join(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendLocal, BackendBridge, c.Backend))
	}
	return errs
}
