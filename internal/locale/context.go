package locale

// Context owns the active locale of a rendering layer. It is created
// explicitly and passed to the components that need it; there is no package
// level active locale. A Context is not safe for concurrent use.
type Context struct {
	resolver    *Resolver
	active      string
	nextID      int
	subscribers map[int]func(string)
}

// NewContext creates a context whose active locale starts at the default.
func NewContext(r *Resolver) *Context {
	return &Context{
		resolver:    r,
		active:      r.Default(),
		subscribers: map[int]func(string){},
	}
}

// Active returns the active locale code.
func (c *Context) Active() string { return c.active }

// Supported returns the supported locale codes.
func (c *Context) Supported() []string { return c.resolver.Supported() }

// Default returns the default locale code.
func (c *Context) Default() string { return c.resolver.Default() }

// Resolver exposes the underlying resolver.
func (c *Context) Resolver() *Resolver { return c.resolver }

// Switch makes lang the active locale and notifies subscribers. Switching to
// the already active locale, or to an unsupported one, is a no-op and
// returns false.
func (c *Context) Switch(lang string) bool {
	if lang == c.active || !c.resolver.IsSupported(lang) {
		return false
	}
	c.active = lang
	for _, id := range c.order() {
		if fn, ok := c.subscribers[id]; ok {
			fn(lang)
		}
	}
	return true
}

// Apply switches to the locale of a resolution.
func (c *Context) Apply(res Resolution) bool {
	return c.Switch(res.Locale)
}

// Subscribe registers fn to be called after every effective locale switch.
// The returned function removes the subscription; calling it twice is safe.
func (c *Context) Subscribe(fn func(string)) func() {
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() { delete(c.subscribers, id) }
}

func (c *Context) order() []int {
	ids := make([]int, 0, len(c.subscribers))
	for id := 0; id < c.nextID; id++ {
		if _, ok := c.subscribers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
