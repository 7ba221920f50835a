//go:build js && wasm

package dom

import (
	"syscall/js"

	"finitefield.org/bizcenter-web/internal/scrollspy"
)

// Layout measures sections by element id.
type Layout struct {
	doc js.Value
	win js.Value
}

func NewLayout() Layout {
	return Layout{doc: js.Global().Get("document"), win: js.Global()}
}

// Measure returns the document-relative span of the element with id.
func (l Layout) Measure(id string) (scrollspy.Rect, bool) {
	el := l.doc.Call("getElementById", id)
	if !present(el) {
		return scrollspy.Rect{}, false
	}
	box := el.Call("getBoundingClientRect")
	return scrollspy.Rect{
		Top:    box.Get("top").Float() + l.win.Get("scrollY").Float(),
		Height: el.Get("offsetHeight").Float(),
	}, true
}

// Scroller scrolls the window smoothly.
type Scroller struct{ win js.Value }

func NewScroller() Scroller { return Scroller{win: js.Global()} }

func (s Scroller) ScrollTo(top float64) {
	s.win.Call("scrollTo", map[string]any{"top": top, "behavior": "smooth"})
}

// ScrollY returns the current vertical scroll position.
func ScrollY() float64 { return js.Global().Get("scrollY").Float() }

// OnScroll registers a passive scroll listener. The returned function removes
// it and releases the callback.
func OnScroll(fn func(y float64)) func() {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn(ScrollY())
		return nil
	})
	win := js.Global()
	opts := map[string]any{"passive": true}
	win.Call("addEventListener", "scroll", cb, opts)
	return func() {
		win.Call("removeEventListener", "scroll", cb, opts)
		cb.Release()
	}
}

// Listen registers fn for event on target and returns a release function.
func Listen(target js.Value, event string, fn func(ev js.Value)) func() {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, cb)
	return func() {
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// Closest returns the nearest ancestor of the event target matching selector.
func Closest(ev js.Value, selector string) (js.Value, bool) {
	t := ev.Get("target")
	if !present(t) || t.Get("closest").Type() != js.TypeFunction {
		return js.Null(), false
	}
	el := t.Call("closest", selector)
	return el, present(el)
}

func present(v js.Value) bool { return !v.IsNull() && !v.IsUndefined() }
