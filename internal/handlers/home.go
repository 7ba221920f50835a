package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"finitefield.org/bizcenter-web/internal/brochure"
	"finitefield.org/bizcenter-web/internal/content"
	"finitefield.org/bizcenter-web/internal/i18n"
	"finitefield.org/bizcenter-web/internal/locale"
	"finitefield.org/bizcenter-web/internal/nav"
	"finitefield.org/bizcenter-web/internal/seo"
)

// NavSettings are the scroll offsets handed to the browser controller.
type NavSettings struct {
	HeaderOffset      float64
	SpyOffset         float64
	ScrolledThreshold float64
}

// Builder assembles page view models.
type Builder struct {
	Bundle   *i18n.Bundle
	Content  *content.Provider
	Resolver *locale.Resolver
	// Brochure is optional; pages render without the viewer when nil or
	// when the file cannot be inspected.
	Brochure    *brochure.Store
	BrochureURL string
	BaseURL     string
	Nav         NavSettings
}

// Home builds the single-page site for lang. A non-empty section must name a
// page section; it becomes the initial scroll target and the canonical path.
func (b *Builder) Home(lang, section string) (PageData, error) {
	if section != "" && !b.Content.Site().HasSection(section) {
		return PageData{}, fmt.Errorf("section %q: %w", section, content.ErrNotFound)
	}
	page, err := b.Content.Page(lang)
	if err != nil {
		return PageData{}, err
	}
	path := ""
	if section != "" {
		path = "/" + section
	}
	data := b.base(lang, path, page)
	data.View = "home"
	data.Section = section

	title := ""
	if section != "" {
		title = page.SectionTitle(section)
	}
	data.SEO = seo.Build(seo.Page{
		SiteName:    page.Name,
		Title:       title,
		Description: page.Description,
		BaseURL:     b.BaseURL,
		Path:        path,
		Lang:        lang,
		Locales:     b.Resolver.Supported(),
		Default:     b.Resolver.Default(),
		Image:       page.OGImage,
	})
	data.SEO.JSONLD = b.jsonLD(data, page)

	data.Breadcrumbs = nav.Breadcrumbs(b.Content.Menu(), data.T, data.T("nav.home"), data.Base(), section)
	data.Nav = nav.Build(b.Content.Menu(), data.T, section, data.Base())
	data.NavConfig = b.clientConfig(lang, section)
	data.Brochure = b.viewer()
	data.Contact.Action = data.Base() + "/contact"
	return data, nil
}

// BrochurePage builds the standalone brochure viewer.
func (b *Builder) BrochurePage(lang string) (PageData, error) {
	page, err := b.Content.Page(lang)
	if err != nil {
		return PageData{}, err
	}
	data := b.base(lang, "/brochure", page)
	data.View = "brochure"
	data.Brochure = b.viewer()
	data.SEO = seo.Build(seo.Page{
		SiteName:    page.Name,
		Title:       data.T("brochure.title"),
		Description: page.Description,
		BaseURL:     b.BaseURL,
		Path:        data.Path,
		Lang:        lang,
		Locales:     b.Resolver.Supported(),
		Default:     b.Resolver.Default(),
		Image:       page.OGImage,
	})
	data.Nav = nav.Build(b.Content.Menu(), data.T, "", data.Base())
	data.Breadcrumbs = []nav.Crumb{
		{Href: data.Base(), Label: data.T("nav.home")},
		{Href: data.Base() + "/brochure", Label: data.T("brochure.title"), Active: true},
	}
	return data, nil
}

// NotFound builds the 404 page. It never fails; content errors leave the
// page without site content.
func (b *Builder) NotFound(lang, path string) PageData {
	page, _ := b.Content.Page(lang)
	data := b.base(lang, path, page)
	data.View = "notfound"
	name := ""
	if page != nil {
		name = page.Name
	}
	data.SEO = seo.Build(seo.Page{
		SiteName: name,
		Title:    data.T("notfound.title"),
		BaseURL:  b.BaseURL,
		Path:     path,
		Lang:     lang,
		NoIndex:  true,
	})
	data.Nav = nav.Build(b.Content.Menu(), data.T, "", data.Base())
	return data
}

func (b *Builder) base(lang, path string, page *content.Page) PageData {
	data := PageData{Lang: lang, Path: path, Content: page, bundle: b.Bundle}
	for _, code := range b.Resolver.Supported() {
		data.Locales = append(data.Locales, LocaleLink{
			Code:   code,
			Label:  b.Bundle.T(code, "lang.name"),
			Href:   b.Resolver.SwitchPath("/"+lang+path, "", code),
			Active: code == lang,
		})
	}
	return data
}

func (b *Builder) viewer() *brochure.Viewer {
	if b.Brochure == nil {
		return nil
	}
	info, err := b.Brochure.Info()
	if err != nil {
		return nil
	}
	url := b.BrochureURL
	if url == "" {
		url = "/brochure.pdf"
	}
	v := brochure.NewViewer(info, url, b.Content.Site().Brochure.Featured)
	return &v
}

func (b *Builder) clientConfig(lang, section string) template.JS {
	cc := nav.ClientConfig{
		Menu:              b.Content.Menu(),
		HeaderOffset:      nav.Px(b.Nav.HeaderOffset),
		SpyOffset:         nav.Px(b.Nav.SpyOffset),
		ScrolledThreshold: nav.Px(b.Nav.ScrolledThreshold),
		Locale:            lang,
		Locales:           b.Resolver.Supported(),
		DefaultLocale:     b.Resolver.Default(),
		InitialSection:    section,
	}
	raw, err := json.Marshal(cc)
	if err != nil {
		return "{}"
	}
	// json.Marshal escapes <, > and & so the payload is safe inside <script>.
	return template.JS(raw)
}

func (b *Builder) jsonLD(data PageData, page *content.Page) []string {
	home := seo.LocaleURL(b.BaseURL, data.Lang, "")
	c := page.Contact
	var sameAs []string
	for _, s := range c.Social {
		sameAs = append(sameAs, s.URL)
	}
	out := []string{
		seo.JSON(seo.WebSite(page.Name, home, b.Resolver.Supported())),
		seo.JSON(seo.Organization(page.Name, home, seo.Absolute(b.BaseURL, page.Logo))),
		seo.JSON(seo.LocalBusiness(seo.Business{
			Name:        page.Name,
			Description: page.Description,
			URL:         home,
			Image:       seo.Absolute(b.BaseURL, page.OGImage),
			Email:       c.Email,
			Phones:      c.Phones,
			Street:      c.Street,
			City:        c.City,
			Country:     c.Country,
			Lat:         c.Geo.Lat,
			Lng:         c.Geo.Lng,
			MapURL:      c.MapURL,
			SameAs:      sameAs,
		})),
	}
	if data.Section != "" {
		out = append(out, seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
			{Name: data.T("nav.home"), Item: home},
			{Name: page.SectionTitle(data.Section), Item: seo.LocaleURL(b.BaseURL, data.Lang, data.Path)},
		})))
	}
	return out
}

// IsNotFound reports whether err means the requested page does not exist.
func IsNotFound(err error) bool { return errors.Is(err, content.ErrNotFound) }
