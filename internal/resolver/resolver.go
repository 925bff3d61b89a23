// Package resolver turns a stream of chords into bindings, buffering
// multi-chord sequences until they complete, fail, or time out.
package resolver

import (
	"time"

	"github.com/guzus/teleterm/internal/keymap"
)

// DefaultTimeout is how long a pending sequence waits for its next chord.
const DefaultTimeout = time.Second

// Status is the outcome of feeding one chord.
type Status int

const (
	Unmatched Status = iota
	Pending
	Resolved
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	default:
		return "unmatched"
	}
}

// Result describes what a chord or a timeout produced.
type Result struct {
	Status Status
	// Binding is set when Status is Resolved.
	Binding *keymap.Binding
	// Flushed is a shorter ambiguous binding that fires before Binding
	// because the chord that followed it did not extend the sequence.
	Flushed *keymap.Binding
	// Generation identifies the pending buffer. A timer armed for it is
	// only honoured while no other chord has arrived.
	Generation uint64
}

// Resolver is not safe for concurrent use; it lives on the UI goroutine.
type Resolver struct {
	table   *keymap.Table
	timeout time.Duration

	scope   keymap.Scope
	buf     keymap.Sequence
	pending *keymap.Binding
	gen     uint64
}

// New returns a Resolver over table. A non-positive timeout selects
// DefaultTimeout.
func New(table *keymap.Table, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{table: table, timeout: timeout}
}

// Timeout is the idle window after which a pending sequence resolves.
func (r *Resolver) Timeout() time.Duration { return r.timeout }

// Buffered returns the chords typed so far for an incomplete sequence.
func (r *Resolver) Buffered() keymap.Sequence {
	return append(keymap.Sequence(nil), r.buf...)
}

// Reset drops any partial sequence.
func (r *Resolver) Reset() {
	r.buf = nil
	r.pending = nil
	r.gen++
}

// Feed advances the buffer with c in scope. Switching scope discards a
// partial sequence typed in the previous scope.
func (r *Resolver) Feed(c keymap.Chord, scope keymap.Scope) Result {
	if scope != r.scope {
		if len(r.buf) > 0 {
			r.Reset()
		}
		r.scope = scope
	}

	seq := append(append(keymap.Sequence(nil), r.buf...), c)
	b, prefix := r.table.Lookup(scope, seq)
	switch {
	case prefix:
		r.buf = seq
		r.pending = b
		r.gen++
		return Result{Status: Pending, Generation: r.gen}
	case b != nil:
		r.Reset()
		return Result{Status: Resolved, Binding: b}
	case len(r.buf) == 0:
		return Result{Status: Unmatched}
	}

	flushed := r.pending
	r.Reset()
	res := r.Feed(c, scope)
	res.Flushed = flushed
	return res
}

// Expire handles the idle timer armed for gen. The second return value is
// false when the timer is stale because input arrived in the meantime.
func (r *Resolver) Expire(gen uint64) (Result, bool) {
	if gen != r.gen || len(r.buf) == 0 {
		return Result{}, false
	}
	b := r.pending
	r.Reset()
	if b != nil {
		return Result{Status: Resolved, Binding: b}, true
	}
	return Result{Status: Unmatched}, true
}
