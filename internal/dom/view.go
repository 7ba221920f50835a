//go:build js && wasm

package dom

import (
	"syscall/js"

	"finitefield.org/bizcenter-web/internal/nav"
)

// NavView mirrors controller state onto the header markup.
type NavView struct {
	doc    js.Value
	header js.Value
}

func NewNavView() *NavView {
	doc := js.Global().Get("document")
	return &NavView{doc: doc, header: doc.Call("querySelector", "[data-nav-header]")}
}

// Render applies st: the active link, open dropdown, mobile menu and the
// compact header style.
func (v *NavView) Render(st nav.State) {
	links := v.doc.Call("querySelectorAll", "a[data-section]")
	for i := 0; i < links.Length(); i++ {
		a := links.Index(i)
		if st.HasActive && a.Get("dataset").Get("section").String() == st.Active {
			a.Call("setAttribute", "data-active", "")
			a.Call("setAttribute", "aria-current", "true")
		} else {
			a.Call("removeAttribute", "data-active")
			a.Call("removeAttribute", "aria-current")
		}
	}
	groups := v.doc.Call("querySelectorAll", "[data-nav-group]")
	for i := 0; i < groups.Length(); i++ {
		g := groups.Index(i)
		id := g.Get("dataset").Get("navGroup").String()
		open := st.OpenGroup == id
		g.Get("classList").Call("toggle", "is-open", open)
		if btn := g.Call("querySelector", "button"); present(btn) {
			btn.Call("setAttribute", "aria-expanded", boolAttr(open))
		}
		active := st.HasActive && present(g.Call("querySelector", `a[data-section="`+st.Active+`"]`))
		g.Get("classList").Call("toggle", "is-active", active)
	}
	if present(v.header) {
		v.header.Get("classList").Call("toggle", "is-scrolled", st.Scrolled)
		v.header.Get("classList").Call("toggle", "menu-open", st.MobileOpen)
		if btn := v.header.Call("querySelector", "[data-nav-toggle]"); present(btn) {
			btn.Call("setAttribute", "aria-expanded", boolAttr(st.MobileOpen))
		}
	}
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
