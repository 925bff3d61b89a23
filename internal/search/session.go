// Package search implements the incremental filter that runs over the chat
// list or the message list while the user types a query.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Entry is one searchable row: a stable id and the text matched against.
type Entry[ID comparable] struct {
	ID   ID
	Text string
}

// Hit is an entry that matches the current query. Matched holds the rune
// offsets of the matched characters.
type Hit[ID comparable] struct {
	ID      ID
	Score   int
	Matched []int
}

type source[ID comparable] []Entry[ID]

func (s source[ID]) String(i int) string { return s[i].Text }
func (s source[ID]) Len() int            { return len(s) }

// Session is an active search over a base list captured at activation.
// The hit list changes only when the query changes.
type Session[ID comparable] struct {
	base   []Entry[ID]
	query  string
	hits   []Hit[ID]
	cursor ID
	hasCur bool
}

// NewSession captures base and starts with an empty query. seed, when
// present in base, becomes the initial cursor; otherwise the first entry.
func NewSession[ID comparable](base []Entry[ID], seed ID, hasSeed bool) *Session[ID] {
	s := &Session[ID]{base: append([]Entry[ID](nil), base...)}
	if hasSeed {
		s.cursor, s.hasCur = seed, true
	}
	s.recompute()
	return s
}

func (s *Session[ID]) Query() string { return s.query }

// Hits returns the current matches in display order.
func (s *Session[ID]) Hits() []Hit[ID] { return s.hits }

// IDs returns the ids of Hits in order.
func (s *Session[ID]) IDs() []ID {
	out := make([]ID, len(s.hits))
	for i, h := range s.hits {
		out[i] = h.ID
	}
	return out
}

// Cursor returns the highlighted id, if any.
func (s *Session[ID]) Cursor() (ID, bool) { return s.cursor, s.hasCur }

// SetQuery replaces the query and recomputes the hits.
func (s *Session[ID]) SetQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.recompute()
}

// Insert appends text to the query.
func (s *Session[ID]) Insert(text string) {
	if text == "" {
		return
	}
	s.SetQuery(s.query + text)
}

// Backspace removes the last character of the query.
func (s *Session[ID]) Backspace() {
	if s.query == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.query)
	s.SetQuery(s.query[:len(s.query)-size])
}

// Next moves the cursor one hit down, stopping at the last hit.
func (s *Session[ID]) Next() { s.step(1) }

// Previous moves the cursor one hit up, stopping at the first hit.
func (s *Session[ID]) Previous() { s.step(-1) }

func (s *Session[ID]) step(delta int) {
	if len(s.hits) == 0 {
		return
	}
	pos := s.cursorIndex()
	if pos < 0 {
		s.setCursor(0)
		return
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s.hits) {
		pos = len(s.hits) - 1
	}
	s.setCursor(pos)
}

// Remove drops entries for which gone reports true from the base list and
// the current hits. The cursor is cleared if its entry was removed.
func (s *Session[ID]) Remove(gone func(ID) bool) {
	base := make([]Entry[ID], 0, len(s.base))
	for _, e := range s.base {
		if !gone(e.ID) {
			base = append(base, e)
		}
	}
	s.base = base

	hits := make([]Hit[ID], 0, len(s.hits))
	for _, h := range s.hits {
		if !gone(h.ID) {
			hits = append(hits, h)
		}
	}
	s.hits = hits

	if s.hasCur && gone(s.cursor) {
		var zero ID
		s.cursor, s.hasCur = zero, false
	}
}

func (s *Session[ID]) cursorIndex() int {
	if !s.hasCur {
		return -1
	}
	for i, h := range s.hits {
		if h.ID == s.cursor {
			return i
		}
	}
	return -1
}

func (s *Session[ID]) setCursor(i int) {
	s.cursor, s.hasCur = s.hits[i].ID, true
}

func (s *Session[ID]) recompute() {
	s.hits = rank(s.base, s.query)
	if s.cursorIndex() >= 0 {
		return
	}
	if len(s.hits) == 0 {
		var zero ID
		s.cursor, s.hasCur = zero, false
		return
	}
	s.setCursor(0)
}

type ranked struct {
	fuzzy.Match
	prefix bool
}

// rank scores every entry against query. Higher scores come first; equal
// scores prefer a case-insensitive prefix match, then the original order.
func rank[ID comparable](base []Entry[ID], query string) []Hit[ID] {
	if query == "" {
		out := make([]Hit[ID], len(base))
		for i, e := range base {
			out[i] = Hit[ID]{ID: e.ID}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, source[ID](base))
	lowerQuery := strings.ToLower(query)
	rs := make([]ranked, len(matches))
	for i, m := range matches {
		rs[i] = ranked{Match: m, prefix: strings.HasPrefix(strings.ToLower(base[m.Index].Text), lowerQuery)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		if rs[i].prefix != rs[j].prefix {
			return rs[i].prefix
		}
		return rs[i].Index < rs[j].Index
	})

	out := make([]Hit[ID], len(rs))
	for i, r := range rs {
		out[i] = Hit[ID]{ID: base[r.Index].ID, Score: r.Score, Matched: runeOffsets(base[r.Index].Text, r.MatchedIndexes)}
	}
	return out
}

// runeOffsets converts the byte offsets reported by fuzzy into rune offsets.
func runeOffsets(text string, bytes []int) []int {
	if len(bytes) == 0 {
		return nil
	}
	at := make(map[int]int, len(text))
	n := 0
	for b := range text {
		at[b] = n
		n++
	}
	out := make([]int, 0, len(bytes))
	for _, b := range bytes {
		if r, ok := at[b]; ok {
			out = append(out, r)
		}
	}
	return out
}
