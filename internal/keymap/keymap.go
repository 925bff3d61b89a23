package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guzus/teleterm/internal/action"
)

// Scope names a group of bindings. Panel scopes fall back to Global.
type Scope string

const (
	Global   Scope = "core_window"
	ChatList Scope = "chat_list"
	Chat     Scope = "chat"
	Prompt   Scope = "prompt"
)

// Scopes returns every scope in lookup-table order.
func Scopes() []Scope {
	return []Scope{Global, ChatList, Chat, Prompt}
}

// ParseScope validates a scope name from a keymap file.
func ParseScope(s string) (Scope, error) {
	for _, sc := range Scopes() {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Entry is one binding as written in a keymap file.
type Entry struct {
	Keys        []string `toml:"keys" yaml:"keys" json:"keys"`
	Command     string   `toml:"command" yaml:"command" json:"command"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
}

// Binding is a validated entry.
type Binding struct {
	Scope       Scope
	Keys        Sequence
	Action      action.Action
	Description string
}

func (e Entry) binding(sc Scope) (Binding, error) {
	seq, err := ParseSequence(e.Keys)
	if err != nil {
		return Binding{}, err
	}
	kind, err := action.Parse(e.Command)
	if err != nil {
		return Binding{}, err
	}
	desc := e.Description
	if desc == "" {
		desc = strings.ReplaceAll(e.Command, "_", " ")
	}
	return Binding{Scope: sc, Keys: seq, Action: action.Of(kind), Description: desc}, nil
}

type node struct {
	next    map[Chord]*node
	binding *Binding
}

func (n *node) insert(b *Binding) {
	cur := n
	for _, c := range b.Keys {
		if cur.next == nil {
			cur.next = make(map[Chord]*node)
		}
		child, ok := cur.next[c]
		if !ok {
			child = &node{}
			cur.next[c] = child
		}
		cur = child
	}
	cur.binding = b
}

// Table is the immutable lookup structure built from merged configuration.
// Each panel scope holds its own bindings layered over the Global ones;
// a panel binding replaces a Global binding with the identical sequence.
type Table struct {
	roots    map[Scope]*node
	declared map[Scope][]Binding
}

// Build validates entries and constructs a Table. Duplicate sequences within
// one scope, unknown commands, unknown keys and unknown scopes are all
// reported together.
func Build(src map[Scope][]Entry) (*Table, error) {
	t := &Table{
		roots:    make(map[Scope]*node, len(Scopes())),
		declared: make(map[Scope][]Binding, len(Scopes())),
	}

	var errs error
	for sc := range src {
		if _, err := ParseScope(string(sc)); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	for _, sc := range Scopes() {
		seen := make(map[string]struct{})
		for i, e := range src[sc] {
			b, err := e.binding(sc)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%s entry %d: %w", sc, i+1, err))
				continue
			}
			key := b.Keys.String()
			if _, dup := seen[key]; dup {
				errs = errors.Join(errs, fmt.Errorf("%s: %q is bound more than once", sc, key))
				continue
			}
			seen[key] = struct{}{}
			t.declared[sc] = append(t.declared[sc], b)
		}
	}
	if errs != nil {
		return nil, errs
	}

	for _, sc := range Scopes() {
		root := &node{}
		if sc != Global {
			for i := range t.declared[Global] {
				root.insert(&t.declared[Global][i])
			}
		}
		for i := range t.declared[sc] {
			root.insert(&t.declared[sc][i])
		}
		t.roots[sc] = root
	}
	return t, nil
}

// Lookup walks seq in scope. It returns the binding that ends exactly at
// seq, if any, and whether some longer binding starts with seq.
func (t *Table) Lookup(sc Scope, seq Sequence) (*Binding, bool) {
	cur, ok := t.roots[sc]
	if !ok {
		return nil, false
	}
	for _, c := range seq {
		cur = cur.next[c]
		if cur == nil {
			return nil, false
		}
	}
	return cur.binding, len(cur.next) > 0
}

// Bindings lists what is reachable from scope: the scope's own bindings
// followed by the Global bindings it does not shadow.
func (t *Table) Bindings(sc Scope) []Binding {
	out := append([]Binding(nil), t.declared[sc]...)
	if sc == Global {
		return out
	}
	shadowed := make(map[string]struct{}, len(out))
	for _, b := range out {
		shadowed[b.Keys.String()] = struct{}{}
	}
	for _, b := range t.declared[Global] {
		if _, ok := shadowed[b.Keys.String()]; ok {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Keys returns the sequences bound to kind in scope, global fallbacks
// included, in declaration order.
func (t *Table) Keys(sc Scope, kind action.Kind) []Sequence {
	var out []Sequence
	for _, b := range t.Bindings(sc) {
		if b.Action.Kind == kind {
			out = append(out, b.Keys)
		}
	}
	return out
}

// Merge layers override on top of base per scope. An override entry whose
// key sequence matches a base entry replaces it in place; the rest are
// appended. Duplicates inside override are kept so Build can report them.
func Merge(base, override map[Scope][]Entry) map[Scope][]Entry {
	out := make(map[Scope][]Entry, len(base))
	for sc, entries := range base {
		out[sc] = append([]Entry(nil), entries...)
	}
	for sc, entries := range override {
		merged := out[sc]
		index := make(map[string]int, len(merged))
		for i, e := range merged {
			index[canonical(e.Keys)] = i
		}
		replaced := make(map[string]bool)
		for _, e := range entries {
			k := canonical(e.Keys)
			if i, ok := index[k]; ok && !replaced[k] {
				merged[i] = e
				replaced[k] = true
				continue
			}
			merged = append(merged, e)
		}
		out[sc] = merged
	}
	return out
}

func canonical(keys []string) string {
	seq, err := ParseSequence(keys)
	if err != nil {
		return strings.Join(keys, " ")
	}
	return seq.String()
}
