package nav

import (
	"encoding/json"
	"fmt"
)

// RenderedItem is a view model for templates.
type RenderedItem struct {
	ID       string
	Href     string
	Label    string
	Anchor   string
	Active   bool
	External bool
	Download bool
	Children []RenderedItem
}

// IsGroup reports whether the rendered item is a dropdown header.
func (r RenderedItem) IsGroup() bool { return len(r.Children) > 0 }

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Build renders the menu with labels resolved through t and the active state
// derived from activeID. base prefixes in-page anchors (e.g. "/en") so links
// keep working when the page is opened on a section path.
func Build(menu Menu, t func(key string) string, activeID, base string) []RenderedItem {
	items := make([]RenderedItem, 0, len(menu))
	for _, it := range menu {
		items = append(items, render(it, t, activeID, base))
	}
	return items
}

func render(it Item, t func(string) string, activeID, base string) RenderedItem {
	out := RenderedItem{
		ID:       it.ID,
		Href:     it.Href,
		Label:    label(it, t),
		Anchor:   it.Anchor(),
		Active:   itemActive(it, activeID),
		External: it.External,
		Download: it.Download,
	}
	if out.Anchor != "" && base != "" {
		out.Href = base + "#" + out.Anchor
	}
	for _, child := range it.Children {
		out.Children = append(out.Children, render(child, t, activeID, base))
	}
	return out
}

func label(it Item, t func(string) string) string {
	if it.LabelKey == "" {
		return it.ID
	}
	if t == nil {
		return it.LabelKey
	}
	return t(it.LabelKey)
}

// Breadcrumbs builds the trail for a section path: home, then the group (not
// linked, it is not a target) and the section when one is selected.
func Breadcrumbs(menu Menu, t func(string) string, homeLabel, base, sectionID string) []Crumb {
	crumbs := []Crumb{{Href: base, Label: homeLabel, Active: sectionID == ""}}
	if sectionID == "" {
		return crumbs
	}
	for _, it := range menu {
		if !it.IsGroup() {
			if it.Anchor() == sectionID {
				crumbs = append(crumbs, Crumb{Href: base + "/" + sectionID, Label: label(it, t), Active: true})
				return crumbs
			}
			continue
		}
		for _, child := range it.Children {
			if child.Anchor() == sectionID {
				crumbs = append(crumbs,
					Crumb{Label: label(it, t)},
					Crumb{Href: base + "/" + sectionID, Label: label(child, t), Active: true},
				)
				return crumbs
			}
		}
	}
	return crumbs
}

// ClientConfig is the navigation model embedded in the page for the browser
// build of the controller. Offsets left nil keep the controller defaults;
// an explicit 0 is honoured.
type ClientConfig struct {
	Menu              Menu     `json:"menu"`
	HeaderOffset      *float64 `json:"headerOffset,omitempty"`
	SpyOffset         *float64 `json:"spyOffset,omitempty"`
	ScrolledThreshold *float64 `json:"scrolledThreshold,omitempty"`
	Locale            string   `json:"locale"`
	Locales           []string `json:"locales"`
	DefaultLocale     string   `json:"defaultLocale"`
	InitialSection    string   `json:"initialSection,omitempty"`
}

// Px returns a pointer to v, for filling ClientConfig offsets.
func Px(v float64) *float64 { return &v }

// Options converts the numeric settings into controller options.
func (cc ClientConfig) Options() []Option {
	var opts []Option
	if cc.HeaderOffset != nil {
		opts = append(opts, WithHeaderOffset(*cc.HeaderOffset))
	}
	if cc.SpyOffset != nil {
		opts = append(opts, WithSpyOffset(*cc.SpyOffset))
	}
	if cc.ScrolledThreshold != nil {
		opts = append(opts, WithScrolledThreshold(*cc.ScrolledThreshold))
	}
	return opts
}

// ParseClientConfig decodes and validates the embedded navigation model.
func ParseClientConfig(raw []byte) (ClientConfig, error) {
	var cc ClientConfig
	if err := json.Unmarshal(raw, &cc); err != nil {
		return ClientConfig{}, fmt.Errorf("nav: decode client config: %w", err)
	}
	if err := cc.Menu.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cc, nil
}
