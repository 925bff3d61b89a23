package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/guzus/teleterm/internal/keymap"
)

// KeymapSource describes where user bindings were read from. Path is empty
// when only the built-in keymap is in use.
type KeymapSource struct {
	Path   string
	Format keymap.Format
}

// LoadKeymapEntries returns the built-in bindings with the first keymap
// file found in dir layered on top. keymap.toml is tried before
// keymap.yaml.
func LoadKeymapEntries(dir string) (map[keymap.Scope][]keymap.Entry, KeymapSource, error) {
	candidates := []KeymapSource{
		{Path: filepath.Join(dir, "keymap.toml"), Format: keymap.FormatTOML},
		{Path: filepath.Join(dir, "keymap.yaml"), Format: keymap.FormatYAML},
		{Path: filepath.Join(dir, "keymap.yml"), Format: keymap.FormatYAML},
	}

	defaults := keymap.Defaults()
	for _, c := range candidates {
		data, err := os.ReadFile(c.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, c, fmt.Errorf("read keymap %q: %w", c.Path, err)
		}
		user, err := keymap.Decode(data, c.Format)
		if err != nil {
			return nil, c, fmt.Errorf("%w: %s: %v", ErrConfig, c.Path, err)
		}
		return keymap.Merge(defaults, user), c, nil
	}
	return defaults, KeymapSource{}, nil
}

// LoadKeymap builds the keymap table for dir. Conflicting or unknown
// bindings are a configuration error.
func LoadKeymap(dir string) (*keymap.Table, KeymapSource, error) {
	entries, src, err := LoadKeymapEntries(dir)
	if err != nil {
		return nil, src, err
	}
	tbl, err := keymap.Build(entries)
	if err != nil {
		where := src.Path
		if where == "" {
			where = "built-in keymap"
		}
		return nil, src, fmt.Errorf("%w: %s: %v", ErrConfig, where, err)
	}
	return tbl, src, nil
}
