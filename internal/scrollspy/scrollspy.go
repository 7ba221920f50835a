// Package scrollspy maps a vertical scroll offset to the section of a page
// that is currently in view.
package scrollspy

import (
	"errors"
	"fmt"
)

// ErrDuplicateSection is returned when the same section id is registered twice.
var ErrDuplicateSection = errors.New("scrollspy: duplicate section id")

// Rect is the vertical span of a section as laid out on the page.
type Rect struct {
	Top    float64
	Height float64
}

// Contains reports whether y lies in the half-open interval [Top, Top+Height).
func (r Rect) Contains(y float64) bool {
	return y >= r.Top && y < r.Top+r.Height
}

// Layout measures sections from the live page. Measure returns false when
// the section has no element or cannot be measured yet.
type Layout interface {
	Measure(id string) (Rect, bool)
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(id string) (Rect, bool)

func (f LayoutFunc) Measure(id string) (Rect, bool) { return f(id) }

// ActiveAt returns the section whose span contains probe. Sections are
// scanned from last to first so that on a shared boundary the lower section
// wins. Unmeasurable sections never match.
func ActiveAt(layout Layout, ids []string, probe float64) (string, bool) {
	for i := len(ids) - 1; i >= 0; i-- {
		rect, ok := layout.Measure(ids[i])
		if !ok {
			continue
		}
		if rect.Contains(probe) {
			return ids[i], true
		}
	}
	return "", false
}

// Tracker keeps the active section up to date as the page scrolls.
// It is driven from a single event loop and is not safe for concurrent use.
type Tracker struct {
	layout Layout
	ids    []string
	offset float64

	active      string
	hasActive   bool
	nextID      int
	subscribers map[int]func(string, bool)
}

// New creates a tracker over ids in display order. offset is added to the
// scroll position before probing.
func New(layout Layout, ids []string, offset float64) (*Tracker, error) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSection, id)
		}
		seen[id] = struct{}{}
	}
	owned := make([]string, len(ids))
	copy(owned, ids)
	return &Tracker{
		layout:      layout,
		ids:         owned,
		offset:      offset,
		subscribers: map[int]func(string, bool){},
	}, nil
}

// Sections returns the tracked ids in display order.
func (t *Tracker) Sections() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Offset returns the probe offset in pixels.
func (t *Tracker) Offset() float64 { return t.offset }

// Active returns the active section id, if any.
func (t *Tracker) Active() (string, bool) { return t.active, t.hasActive }

// Mount performs the initial computation.
func (t *Tracker) Mount(scrollY float64) { t.Update(scrollY) }

// Update recomputes the active section for scrollY and notifies subscribers
// when it changed. It reports whether the active section changed.
func (t *Tracker) Update(scrollY float64) bool {
	id, ok := ActiveAt(t.layout, t.ids, scrollY+t.offset)
	if id == t.active && ok == t.hasActive {
		return false
	}
	t.active, t.hasActive = id, ok
	for i := 0; i < t.nextID; i++ {
		if fn, exists := t.subscribers[i]; exists {
			fn(id, ok)
		}
	}
	return true
}

// Subscribe registers fn for active section changes and returns a function
// that removes it.
func (t *Tracker) Subscribe(fn func(id string, ok bool)) func() {
	id := t.nextID
	t.nextID++
	t.subscribers[id] = fn
	return func() { delete(t.subscribers, id) }
}
