package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// State is the UI state remembered between runs.
type State struct {
	path          string
	LastChatID    int64  `json:"last_chat_id,omitempty"`
	ChatListWidth int    `json:"chat_list_width,omitempty"`
	PromptHeight  int    `json:"prompt_height,omitempty"`
	ChatOrder     string `json:"chat_order,omitempty"`
}

// Load reads state.json from dir, or returns empty state if it doesn't exist.
func Load(dir string) (*State, error) {
	return LoadPath(filepath.Join(dir, "state.json"))
}

// LoadPath reads the state file from a custom path.
func LoadPath(path string) (*State, error) {
	s := &State{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	return s, nil
}

// Save persists state to disk.
func (s *State) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	return os.WriteFile(s.path, data, 0600)
}
