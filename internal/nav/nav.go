package nav

import (
	"errors"
	"fmt"
	"strings"
)

// Item is a menu entry. An item with Children is a group header: it is not
// a navigation target itself, only its children are.
type Item struct {
	ID       string `yaml:"id" json:"id"`
	LabelKey string `yaml:"label_key" json:"labelKey"`
	Href     string `yaml:"href" json:"href,omitempty"`
	External bool   `yaml:"external" json:"external,omitempty"`
	Download bool   `yaml:"download" json:"download,omitempty"`
	Children []Item `yaml:"children" json:"children,omitempty"`
}

// IsGroup reports whether the item is a dropdown group header.
func (it Item) IsGroup() bool { return len(it.Children) > 0 }

// Anchor returns the section id targeted by an in-page href ("#offices" ->
// "offices"). It returns "" for external or non-anchor hrefs.
func (it Item) Anchor() string {
	if it.External {
		return ""
	}
	return AnchorID(it.Href)
}

// AnchorID extracts the section id from an in-page href.
func AnchorID(href string) string {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, "#") {
		return ""
	}
	return strings.TrimPrefix(href, "#")
}

// Menu is an ordered, at most two level deep, navigation tree.
type Menu []Item

var (
	// ErrInvalidMenu wraps every menu validation failure.
	ErrInvalidMenu = errors.New("nav: invalid menu")
)

// Validate checks id uniqueness, nesting depth and target presence.
func (m Menu) Validate() error {
	seen := map[string]struct{}{}
	check := func(it Item) error {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("%w: item without id", ErrInvalidMenu)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidMenu, it.ID)
		}
		seen[it.ID] = struct{}{}
		return nil
	}
	for _, it := range m {
		if err := check(it); err != nil {
			return err
		}
		if !it.IsGroup() {
			if strings.TrimSpace(it.Href) == "" {
				return fmt.Errorf("%w: leaf %q has no href", ErrInvalidMenu, it.ID)
			}
			continue
		}
		for _, child := range it.Children {
			if err := check(child); err != nil {
				return err
			}
			if child.IsGroup() {
				return fmt.Errorf("%w: %q nests deeper than one level", ErrInvalidMenu, child.ID)
			}
			if strings.TrimSpace(child.Href) == "" {
				return fmt.Errorf("%w: leaf %q has no href", ErrInvalidMenu, child.ID)
			}
		}
	}
	return nil
}

// SectionIDs flattens the menu into the ordered list of section ids to track.
// Groups contribute their children's anchors, never their own id.
func (m Menu) SectionIDs() []string {
	var ids []string
	seen := map[string]struct{}{}
	add := func(it Item) {
		anchor := it.Anchor()
		if anchor == "" {
			return
		}
		if _, dup := seen[anchor]; dup {
			return
		}
		seen[anchor] = struct{}{}
		ids = append(ids, anchor)
	}
	for _, it := range m {
		if it.IsGroup() {
			for _, child := range it.Children {
				add(child)
			}
			continue
		}
		add(it)
	}
	return ids
}

// Find returns the item with id at any level.
func (m Menu) Find(id string) (Item, bool) {
	for _, it := range m {
		if it.ID == id {
			return it, true
		}
		for _, child := range it.Children {
			if child.ID == id {
				return child, true
			}
		}
	}
	return Item{}, false
}

// GroupOf returns the id of the group containing the item with id, if any.
func (m Menu) GroupOf(id string) (string, bool) {
	for _, it := range m {
		for _, child := range it.Children {
			if child.ID == id {
				return it.ID, true
			}
		}
	}
	return "", false
}
