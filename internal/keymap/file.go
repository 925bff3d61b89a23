package keymap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a keymap file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

//go:embed default.toml
var defaultKeymap []byte

type section struct {
	Keymap []Entry `toml:"keymap" yaml:"keymap"`
}

// Decode reads a keymap file. Unknown scopes and unknown fields are errors.
func Decode(data []byte, format Format) (map[Scope][]Entry, error) {
	raw := make(map[string]section)
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}

	out := make(map[Scope][]Entry, len(raw))
	var errs error
	for name, sec := range raw {
		sc, err := ParseScope(name)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		out[sc] = sec.Keymap
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// Encode writes entries in the given format, scopes in table order.
func Encode(w io.Writer, entries map[Scope][]Entry, format Format) error {
	switch format {
	case FormatTOML:
		doc := make(map[string]section, len(entries))
		for sc, es := range entries {
			doc[string(sc)] = section{Keymap: es}
		}
		enc := toml.NewEncoder(w)
		enc.SetArraysMultiline(true)
		return enc.Encode(doc)
	case FormatYAML:
		doc := yaml.Node{Kind: yaml.MappingNode}
		for _, sc := range Scopes() {
			es, ok := entries[sc]
			if !ok {
				continue
			}
			var val yaml.Node
			if err := val.Encode(section{Keymap: es}); err != nil {
				return err
			}
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: string(sc)}, &val)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(&doc)
	default:
		return fmt.Errorf("unsupported keymap format %q", format)
	}
}

// Defaults returns the built-in keymap entries.
func Defaults() map[Scope][]Entry {
	entries, err := Decode(defaultKeymap, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("keymap: invalid built-in keymap: %v", err))
	}
	return entries
}

// Default builds the Table for the built-in keymap.
func Default() *Table {
	t, err := Build(Defaults())
	if err != nil {
		panic(fmt.Sprintf("keymap: invalid built-in keymap: %v", err))
	}
	return t
}
