// Package selection keeps a panel's selected entry by identity so it stays
// correct while the list underneath it is reordered, filtered or mutated.
package selection

// Resolve finds id in view. A missing id is no selection, never a fallback
// position.
func Resolve[ID comparable](id ID, view []ID) (int, bool) {
	for i, v := range view {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// Tracker is the optional selected id of one panel.
type Tracker[ID comparable] struct {
	id  ID
	set bool
}

func (t *Tracker[ID]) Select(id ID) {
	t.id = id
	t.set = true
}

func (t *Tracker[ID]) Clear() {
	var zero ID
	t.id = zero
	t.set = false
}

// Selected returns the remembered id, which may no longer be in any view.
func (t *Tracker[ID]) Selected() (ID, bool) {
	return t.id, t.set
}

// Position resolves the selection against view.
func (t *Tracker[ID]) Position(view []ID) (int, bool) {
	if !t.set {
		return -1, false
	}
	return Resolve(t.id, view)
}

// Next moves one entry forward, stopping at the end. With no resolvable
// selection the first entry is selected.
func (t *Tracker[ID]) Next(view []ID) {
	t.step(view, 1)
}

// Previous moves one entry back, stopping at the start. With no resolvable
// selection the first entry is selected.
func (t *Tracker[ID]) Previous(view []ID) {
	t.step(view, -1)
}

func (t *Tracker[ID]) step(view []ID, delta int) {
	if len(view) == 0 {
		return
	}
	pos, ok := t.Position(view)
	if !ok {
		t.Select(view[0])
		return
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(view) {
		pos = len(view) - 1
	}
	t.Select(view[pos])
}

// Unselect clears the selection. Scroll state lives with the panel and is
// left alone.
func (t *Tracker[ID]) Unselect() { t.Clear() }
