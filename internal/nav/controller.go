package nav

import (
	"finitefield.org/bizcenter-web/internal/scrollspy"
)

const (
	// DefaultHeaderOffset is the height of the fixed top bar in pixels.
	DefaultHeaderOffset = 80
	// DefaultSpyOffset is added to the scroll position when probing sections.
	DefaultSpyOffset = 150
	// DefaultScrolledThreshold is the scroll position past which the bar is
	// rendered in its compact style.
	DefaultScrolledThreshold = 50
	// LanguageMenuID is the dropdown id of the language switcher. It closes
	// on scroll.
	LanguageMenuID = "language"
)

// Scroller performs a smooth scroll to an absolute vertical position. The
// animation is not awaited.
type Scroller interface {
	ScrollTo(top float64)
}

// State is a snapshot of the controller for renderers.
type State struct {
	Active     string
	HasActive  bool
	MobileOpen bool
	OpenGroup  string
	Scrolled   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithHeaderOffset overrides the fixed header height.
func WithHeaderOffset(px float64) Option {
	return func(c *Controller) { c.headerOffset = px }
}

// WithSpyOffset overrides the scroll-spy probe offset.
func WithSpyOffset(px float64) Option {
	return func(c *Controller) { c.spyOffset = px }
}

// WithScrolledThreshold overrides the compact header threshold.
func WithScrolledThreshold(px float64) Option {
	return func(c *Controller) { c.scrolledThreshold = px }
}

// Controller combines the scroll tracker with the menu state. It owns the
// active section id and the open dropdown id and only mutates them from its
// own event handlers. It is not safe for concurrent use.
type Controller struct {
	menu     Menu
	layout   scrollspy.Layout
	scroller Scroller
	tracker  *scrollspy.Tracker

	headerOffset      float64
	spyOffset         float64
	scrolledThreshold float64

	mobileOpen bool
	openGroup  string
	scrolled   bool

	nextID      int
	subscribers map[int]func(State)
}

// NewController validates menu and wires a tracker over its section ids.
func NewController(menu Menu, layout scrollspy.Layout, scroller Scroller, opts ...Option) (*Controller, error) {
	if err := menu.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		menu:              menu,
		layout:            layout,
		scroller:          scroller,
		headerOffset:      DefaultHeaderOffset,
		spyOffset:         DefaultSpyOffset,
		scrolledThreshold: DefaultScrolledThreshold,
		subscribers:       map[int]func(State){},
	}
	for _, opt := range opts {
		opt(c)
	}
	tracker, err := scrollspy.New(layout, menu.SectionIDs(), c.spyOffset)
	if err != nil {
		return nil, err
	}
	c.tracker = tracker
	tracker.Subscribe(func(string, bool) { c.notify() })
	return c, nil
}

// Menu returns the menu model.
func (c *Controller) Menu() Menu { return c.menu }

// SectionIDs returns the ids fed into the tracker.
func (c *Controller) SectionIDs() []string { return c.tracker.Sections() }

// HeaderOffset returns the fixed header height used for scroll targets.
func (c *Controller) HeaderOffset() float64 { return c.headerOffset }

// Active returns the active section id.
func (c *Controller) Active() (string, bool) { return c.tracker.Active() }

// IsActive reports whether item is highlighted: a leaf when its anchor is the
// active section, a group when any of its children is.
func (c *Controller) IsActive(it Item) bool {
	active, ok := c.tracker.Active()
	if !ok {
		return false
	}
	return itemActive(it, active)
}

func itemActive(it Item, active string) bool {
	if active == "" {
		return false
	}
	if it.IsGroup() {
		for _, child := range it.Children {
			if child.Anchor() == active {
				return true
			}
		}
		return false
	}
	return it.Anchor() == active
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	active, ok := c.tracker.Active()
	return State{
		Active:     active,
		HasActive:  ok,
		MobileOpen: c.mobileOpen,
		OpenGroup:  c.openGroup,
		Scrolled:   c.scrolled,
	}
}

// Mount runs the initial scroll computation.
func (c *Controller) Mount(scrollY float64) {
	c.scrolled = scrollY > c.scrolledThreshold
	if !c.tracker.Update(scrollY) {
		c.notify()
	}
}

// OnScroll handles a scroll event.
func (c *Controller) OnScroll(scrollY float64) {
	changed := false
	if scrolled := scrollY > c.scrolledThreshold; scrolled != c.scrolled {
		c.scrolled = scrolled
		changed = true
	}
	if c.openGroup == LanguageMenuID {
		c.openGroup = ""
		changed = true
	}
	if c.tracker.Update(scrollY) {
		return
	}
	if changed {
		c.notify()
	}
}

// NavigateTo smooth-scrolls to the section targeted by href, leaving room for
// the fixed header. Unknown, unmounted or non-anchor targets are ignored and
// false is returned.
func (c *Controller) NavigateTo(href string) bool {
	id := AnchorID(href)
	if id == "" {
		return false
	}
	rect, ok := c.layout.Measure(id)
	if !ok {
		return false
	}
	c.scroller.ScrollTo(rect.Top - c.headerOffset)
	return true
}

// Click handles activation of the menu item with id. Groups toggle their
// dropdown; leaves close the mobile menu and any dropdown, then navigate.
// It reports whether a scroll was issued.
func (c *Controller) Click(id string) bool {
	it, ok := c.menu.Find(id)
	if !ok {
		return false
	}
	if it.IsGroup() {
		c.ToggleGroup(id)
		return false
	}
	c.mobileOpen = false
	c.openGroup = ""
	c.notify()
	if it.External || it.Download {
		return false
	}
	return c.NavigateTo(it.Href)
}

// ToggleMobile opens or closes the collapsed mobile menu.
func (c *Controller) ToggleMobile() {
	c.mobileOpen = !c.mobileOpen
	c.notify()
}

// CloseMobile closes the mobile menu.
func (c *Controller) CloseMobile() {
	if !c.mobileOpen {
		return
	}
	c.mobileOpen = false
	c.notify()
}

// MobileOpen reports whether the mobile menu is open.
func (c *Controller) MobileOpen() bool { return c.mobileOpen }

// OpenGroup opens the dropdown with id, closing any other one. Only menu
// groups and the language switcher have a dropdown; other ids are ignored.
func (c *Controller) OpenGroup(id string) {
	if c.openGroup == id || !c.hasDropdown(id) {
		return
	}
	c.openGroup = id
	c.notify()
}

func (c *Controller) hasDropdown(id string) bool {
	if id == LanguageMenuID {
		return true
	}
	it, ok := c.menu.Find(id)
	return ok && it.IsGroup()
}

// ToggleGroup opens the dropdown with id or closes it when already open.
func (c *Controller) ToggleGroup(id string) {
	if c.openGroup == id {
		c.CloseGroups()
		return
	}
	c.OpenGroup(id)
}

// CloseGroups closes the open dropdown, if any.
func (c *Controller) CloseGroups() {
	if c.openGroup == "" {
		return
	}
	c.openGroup = ""
	c.notify()
}

// OpenGroupID returns the id of the open dropdown or "".
func (c *Controller) OpenGroupID() string { return c.openGroup }

// Scrolled reports whether the page is scrolled past the compact threshold.
func (c *Controller) Scrolled() bool { return c.scrolled }

// Dismiss handles the Escape key: dropdowns close first, then the mobile menu.
func (c *Controller) Dismiss() {
	if c.openGroup != "" {
		c.CloseGroups()
		return
	}
	c.CloseMobile()
}

// Subscribe registers fn to receive a snapshot after every state change and
// returns a function that removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() { delete(c.subscribers, id) }
}

func (c *Controller) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	st := c.State()
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.subscribers[i]; ok {
			fn(st)
		}
	}
}
