package keymap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	Ctrl Modifier = 1 << iota
	Alt
	Shift
)

// Chord is one key press together with its modifiers. Named keys use
// lowercase names ("enter", "pgup"); character keys hold the character.
type Chord struct {
	Key  string
	Mods Modifier
}

var namedKeys = map[string]string{
	"esc":       "esc",
	"escape":    "esc",
	"enter":     "enter",
	"return":    "enter",
	"tab":       "tab",
	"backtab":   "shift+tab",
	"backspace": "backspace",
	"bs":        "backspace",
	"space":     "space",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pgup":      "pgup",
	"pageup":    "pgup",
	"pgdown":    "pgdown",
	"pagedown":  "pgdown",
	"delete":    "delete",
	"del":       "delete",
	"insert":    "insert",
	"ins":       "insert",
}

func init() {
	for i := 1; i <= 20; i++ {
		k := fmt.Sprintf("f%d", i)
		namedKeys[k] = k
	}
}

// ParseChord parses strings such as "ctrl+x", "alt+shift+up", "Q" or " ".
// Modifier names may appear in any order and letter case is folded into
// the shift modifier, so "Q" and "shift+q" are the same chord.
func ParseChord(s string) (Chord, error) {
	if s == "" {
		return Chord{}, fmt.Errorf("empty key")
	}
	if s == " " {
		return Chord{Key: "space"}, nil
	}

	var mods []string
	key := s
	switch {
	case s == "+":
	case strings.HasSuffix(s, "++"):
		mods = strings.Split(s[:len(s)-2], "+")
		key = "+"
	default:
		parts := strings.Split(s, "+")
		key = parts[len(parts)-1]
		mods = parts[:len(parts)-1]
	}

	var c Chord
	for _, m := range mods {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "ctrl", "control":
			c.Mods |= Ctrl
		case "alt", "meta", "option":
			c.Mods |= Alt
		case "shift":
			c.Mods |= Shift
		default:
			return Chord{}, fmt.Errorf("key %q: unknown modifier %q", s, m)
		}
	}

	if key == "" {
		return Chord{}, fmt.Errorf("key %q: missing key after modifiers", s)
	}

	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if unicode.IsUpper(r) {
			c.Mods |= Shift
			r = unicode.ToLower(r)
		}
		if unicode.IsSpace(r) {
			c.Key = "space"
			return c, nil
		}
		c.Key = string(r)
		return c, nil
	}

	name, ok := namedKeys[strings.ToLower(key)]
	if !ok {
		return Chord{}, fmt.Errorf("key %q: unknown key %q", s, key)
	}
	if strings.HasPrefix(name, "shift+") {
		c.Mods |= Shift
		name = strings.TrimPrefix(name, "shift+")
	}
	c.Key = name
	return c, nil
}

// MustChord is ParseChord for literals known to be valid.
func MustChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Chord) String() string {
	var b strings.Builder
	if c.Mods&Ctrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mods&Alt != 0 {
		b.WriteString("alt+")
	}
	if c.Mods&Shift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// Rune returns the character this chord types when it is plain text input.
// Chords held with ctrl or alt never type text.
func (c Chord) Rune() (rune, bool) {
	if c.Mods&(Ctrl|Alt) != 0 {
		return 0, false
	}
	if c.Key == "space" {
		return ' ', true
	}
	if utf8.RuneCountInString(c.Key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.Key)
	if c.Mods&Shift != 0 {
		r = unicode.ToUpper(r)
	}
	return r, unicode.IsPrint(r)
}

// IsText reports whether the chord types a printable character.
func (c Chord) IsText() bool {
	_, ok := c.Rune()
	return ok
}

// Sequence is an ordered list of chords typed one after another.
type Sequence []Chord

// ParseSequence parses each element as a chord.
func ParseSequence(keys []string) (Sequence, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys")
	}
	seq := make(Sequence, 0, len(keys))
	for _, k := range keys {
		c, err := ParseChord(k)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
