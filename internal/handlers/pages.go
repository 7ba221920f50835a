package handlers

import (
	"fmt"
	"html/template"

	"finitefield.org/bizcenter-web/internal/brochure"
	"finitefield.org/bizcenter-web/internal/contact"
	"finitefield.org/bizcenter-web/internal/content"
	"finitefield.org/bizcenter-web/internal/i18n"
	"finitefield.org/bizcenter-web/internal/nav"
	"finitefield.org/bizcenter-web/internal/seo"
)

// PageData is the view model shared by every page using the base layout.
type PageData struct {
	// View selects the page body: "home", "brochure" or "notfound".
	View string
	Lang string
	// Path is the locale-free path of the page ("" for home).
	Path    string
	Section string
	SEO     seo.Meta

	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Locales     []LocaleLink
	// NavConfig is the JSON consumed by the browser navigation build.
	NavConfig template.JS

	Content  *content.Page
	Brochure *brochure.Viewer
	Contact  ContactView

	bundle *i18n.Bundle
}

// T translates key in the page locale.
func (p PageData) T(key string) string {
	if p.bundle == nil {
		return key
	}
	return p.bundle.T(p.Lang, key)
}

// Tf translates key and formats it with args.
func (p PageData) Tf(key string, args ...any) string {
	if p.bundle == nil {
		return fmt.Sprintf(key, args...)
	}
	return p.bundle.Tf(p.Lang, key, args...)
}

// Base is the locale root, e.g. "/ka".
func (p PageData) Base() string { return "/" + p.Lang }

// LocaleLink is one entry of the language switcher.
type LocaleLink struct {
	Code   string
	Label  string
	Href   string
	Active bool
	// Suggested marks the browser's preferred locale when it is not the
	// active one.
	Suggested bool
}

// SuggestLocale flags the switcher entry for code. The active locale is
// never flagged.
func (p *PageData) SuggestLocale(code string) {
	for i := range p.Locales {
		p.Locales[i].Suggested = code != "" && p.Locales[i].Code == code && !p.Locales[i].Active
	}
}

// ContactView is the state of the enquiry form.
type ContactView struct {
	Form   contact.Form
	Errors contact.Errors
	Sent   bool
	CSRF   string
	// Action is the form POST target.
	Action string
}

// Error returns the translated message for field, or "".
func (c ContactView) Error(p PageData, field string) string {
	if !c.Errors.Has(field) {
		return ""
	}
	return p.T(c.Errors.Get(field))
}
