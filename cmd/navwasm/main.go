//go:build js && wasm

// Command navwasm drives the site header in the browser: scroll-spy, smooth
// anchor navigation, dropdowns and the remembered language choice.
package main

import (
	"strings"
	"syscall/js"

	"finitefield.org/bizcenter-web/internal/dom"
	"finitefield.org/bizcenter-web/internal/locale"
	"finitefield.org/bizcenter-web/internal/nav"
)

func main() {
	doc := js.Global().Get("document")
	cfgEl := doc.Call("getElementById", "nav-config")
	if cfgEl.IsNull() {
		return
	}
	cc, err := nav.ParseClientConfig([]byte(cfgEl.Get("textContent").String()))
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		return
	}

	resolver, err := locale.NewResolver(cc.Locales, cc.DefaultLocale)
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		return
	}
	locales := locale.NewContext(resolver)
	store := dom.NewLocalStore(locale.CookieName)
	locales.Subscribe(func(lang string) { locale.Remember(store, lang) })
	path := js.Global().Get("location").Get("pathname").String()
	locales.Apply(resolver.Resolve(locale.FirstSegment(path)))
	locale.Remember(store, locales.Active())

	ctrl, err := nav.NewController(cc.Menu, dom.NewLayout(), dom.NewScroller(), cc.Options()...)
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		return
	}
	view := dom.NewNavView()
	ctrl.Subscribe(view.Render)
	ctrl.Mount(dom.ScrollY())
	dom.OnScroll(ctrl.OnScroll)

	dom.Listen(doc, "click", func(ev js.Value) {
		if el, ok := dom.Closest(ev, "[data-locale]"); ok {
			code := el.Get("dataset").Get("locale").String()
			if !resolver.IsSupported(code) {
				return
			}
			ev.Call("preventDefault")
			locales.Switch(code)
			loc := js.Global().Get("location")
			loc.Call("replace", resolver.SwitchPath(loc.Get("pathname").String(), loc.Get("hash").String(), code))
			return
		}
		if _, ok := dom.Closest(ev, "[data-nav-toggle]"); ok {
			ctrl.ToggleMobile()
			return
		}
		el, ok := dom.Closest(ev, "[data-nav-id]")
		if !ok {
			ctrl.CloseGroups()
			return
		}
		id := el.Get("dataset").Get("navId").String()
		if id == nav.LanguageMenuID {
			ctrl.ToggleGroup(id)
			return
		}
		item, found := ctrl.Menu().Find(id)
		if !found {
			return
		}
		if item.IsGroup() {
			ctrl.Click(id)
			return
		}
		if item.Anchor() != "" {
			ev.Call("preventDefault")
			if ctrl.Click(id) {
				replaceHash(item.Anchor())
			}
			return
		}
		ctrl.Click(id)
	})
	dom.Listen(doc, "keydown", func(ev js.Value) {
		if ev.Get("key").String() == "Escape" {
			ctrl.Dismiss()
		}
	})

	target := cc.InitialSection
	if hash := strings.TrimPrefix(js.Global().Get("location").Get("hash").String(), "#"); hash != "" {
		target = hash
	}
	if target != "" {
		ctrl.NavigateTo("#" + target)
	}

	select {}
}

// replaceHash updates the fragment without adding a history entry.
func replaceHash(id string) {
	js.Global().Get("history").Call("replaceState", nil, "", "#"+id)
}
