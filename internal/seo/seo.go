package seo

import (
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Alternate is a <link rel="alternate" hreflang> entry.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// Page describes the page being rendered.
type Page struct {
	SiteName    string
	Title       string
	Description string
	BaseURL     string
	Path        string // locale-free path, "" or "/offices"
	Lang        string
	Locales     []string
	Default     string
	Image       string
	NoIndex     bool
}

// ogLocales maps site locales to OpenGraph locale codes.
var ogLocales = map[string]string{
	"en": "en_US",
	"ka": "ka_GE",
}

// Build assembles the meta model: canonical URL for the current locale,
// hreflang alternates for every locale plus x-default.
func Build(p Page) Meta {
	title := p.SiteName
	if p.Title != "" && p.Title != p.SiteName {
		title = p.Title + " | " + p.SiteName
	}
	canonical := LocaleURL(p.BaseURL, p.Lang, p.Path)
	m := Meta{
		Title:       title,
		Description: p.Description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: p.Description,
			Image:       Absolute(p.BaseURL, p.Image),
			Type:        "website",
			URL:         canonical,
			SiteName:    p.SiteName,
			Locale:      ogLocales[p.Lang],
		},
		Twitter: Twitter{Card: "summary_large_image", Image: Absolute(p.BaseURL, p.Image)},
	}
	if p.NoIndex {
		m.Robots = "noindex, nofollow"
	}
	for _, l := range p.Locales {
		m.Alternates = append(m.Alternates, Alternate{Href: LocaleURL(p.BaseURL, l, p.Path), Hreflang: l})
	}
	if p.Default != "" {
		m.Alternates = append(m.Alternates, Alternate{Href: LocaleURL(p.BaseURL, p.Default, p.Path), Hreflang: "x-default"})
	}
	return m
}

// LocaleURL joins base, the locale segment and path.
func LocaleURL(base, lang, path string) string {
	base = strings.TrimRight(base, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + lang + path
}

// Absolute resolves a site-relative ref against base. Absolute URLs pass through.
func Absolute(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
