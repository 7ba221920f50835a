package content

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"
	"time"

	"finitefield.org/bizcenter-web/internal/nav"
)

const defaultCacheTTL = 5 * time.Minute

// Provider serves the site content localized per request locale. Rendered
// locales are cached for the configured TTL; zero TTL disables caching.
type Provider struct {
	fsys          fs.FS
	dir           string
	site          *Site
	defaultLocale string
	ttl           time.Duration
	now           func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// ProviderOption customises a Provider.
type ProviderOption func(*Provider)

// WithCacheTTL overrides the localized page cache duration.
func WithCacheTTL(d time.Duration) ProviderOption {
	return func(p *Provider) { p.ttl = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

// NewProvider loads site.yaml from dir inside fsys.
func NewProvider(fsys fs.FS, dir, defaultLocale string, opts ...ProviderOption) (*Provider, error) {
	site, err := LoadSite(fsys, dir)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		fsys:          fsys,
		dir:           dir,
		site:          site,
		defaultLocale: defaultLocale,
		ttl:           defaultCacheTTL,
		now:           time.Now,
		cache:         map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Site returns the raw, unlocalized site model.
func (p *Provider) Site() *Site { return p.site }

// Menu returns the navigation menu.
func (p *Provider) Menu() nav.Menu { return p.site.Menu }

// Page returns the site localized for lang. Markdown blocks missing for lang
// fall back to the default locale.
func (p *Provider) Page(lang string) (*Page, error) {
	if page, ok := p.cached(lang); ok {
		return page, nil
	}
	page, err := p.localize(lang)
	if err != nil {
		return nil, err
	}
	p.store(lang, page)
	return page, nil
}

func (p *Provider) cached(lang string) (*Page, bool) {
	if p.ttl <= 0 {
		return nil, false
	}
	p.mu.RLock()
	entry, ok := p.cache[lang]
	p.mu.RUnlock()
	if !ok || p.now().After(entry.expires) {
		return nil, false
	}
	return entry.page, true
}

func (p *Provider) store(lang string, page *Page) {
	if p.ttl <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[lang] = cacheEntry{page: page, expires: p.now().Add(p.ttl)}
}

func (p *Provider) block(lang, id string) (Block, error) {
	priority := []string{lang}
	if lang != p.defaultLocale {
		priority = append(priority, p.defaultLocale)
	}
	for _, candidate := range priority {
		b, err := readBlock(p.fsys, p.dir, candidate, id)
		if err == nil {
			return b, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return Block{}, err
	}
	return Block{ID: id, Lang: lang}, nil
}

func (p *Provider) localize(lang string) (*Page, error) {
	s := p.site
	def := p.defaultLocale
	tr := func(t Text) string { return t.In(lang, def) }

	page := &Page{
		Lang:        lang,
		Name:        s.Name,
		Tagline:     tr(s.Tagline),
		Description: tr(s.Description),
		Logo:        s.Logo,
		OGImage:     s.OGImage,
		Blocks:      map[string]Block{},
	}
	for _, sec := range s.Sections {
		b, err := p.block(lang, sec.ID)
		if err != nil {
			return nil, fmt.Errorf("content: section %s/%s: %w", lang, sec.ID, err)
		}
		if b.Title == "" {
			b.Title = tr(sec.Title)
		}
		page.Blocks[sec.ID] = b
		page.Sections = append(page.Sections, LocalSection{ID: sec.ID, Title: b.Title})
	}
	if page.Description == "" {
		page.Description = page.Blocks["about"].Excerpt
	}
	for _, st := range s.Stats {
		page.Stats = append(page.Stats, LocalStat{ID: st.ID, Value: st.Value, Suffix: st.Suffix, Label: tr(st.Label)})
	}
	for _, o := range s.Offices {
		lo := LocalOffice{ID: o.ID, Size: o.Size, Description: tr(o.Description)}
		for _, f := range o.Features {
			lo.Features = append(lo.Features, tr(f))
		}
		page.Offices = append(page.Offices, lo)
	}
	for _, f := range s.Coworking {
		page.Coworking = append(page.Coworking, LocalFeature{ID: f.ID, Icon: f.Icon, Title: tr(f.Title), Description: tr(f.Description)})
	}
	for _, f := range s.Virtual {
		page.Virtual = append(page.Virtual, LocalFeature{ID: f.ID, Icon: f.Icon, Title: tr(f.Title), Description: tr(f.Description)})
	}
	for _, r := range s.Rooms {
		page.Rooms = append(page.Rooms, LocalRoom{ID: r.ID, Name: r.Name, Seats: r.Seats, Description: tr(r.Description)})
	}
	for _, a := range s.Amenities {
		page.Amenities = append(page.Amenities, LocalAmenity{ID: a.ID, Title: tr(a.Title), Description: tr(a.Description), Size: a.Size, Capacity: tr(a.Capacity)})
	}
	for _, m := range s.Team {
		page.Team = append(page.Team, LocalMember{ID: m.ID, Name: m.Name, Role: tr(m.Role), Bio: tr(m.Bio), Email: m.Email, Image: m.Image})
	}
	for _, g := range s.Galleries {
		lg := LocalGallery{ID: g.ID, Category: g.Category, Title: tr(g.Title)}
		for _, img := range g.Expand() {
			lg.Images = append(lg.Images, LocalImage{Src: img.Src, Caption: tr(img.Caption)})
		}
		page.Galleries = append(page.Galleries, lg)
	}
	c := s.Contact
	page.Contact = LocalContact{
		Phones:  c.Phones,
		Email:   c.Email,
		Address: tr(c.Address),
		Street:  c.Street,
		City:    c.City,
		Country: c.Country,
		MapURL:  c.MapURL,
		Geo:     c.Geo,
		Social:  c.Social,
	}
	for _, h := range c.Hours {
		page.Contact.Hours = append(page.Contact.Hours, LocalHours{Days: tr(h.Days), Time: h.Time, Note: tr(h.Note)})
	}
	return page, nil
}

// Page is the site content resolved for one locale.
type Page struct {
	Lang        string
	Name        string
	Tagline     string
	Description string
	Logo        string
	OGImage     string
	Sections    []LocalSection
	Blocks      map[string]Block
	Stats       []LocalStat
	Offices     []LocalOffice
	Coworking   []LocalFeature
	Virtual     []LocalFeature
	Rooms       []LocalRoom
	Amenities   []LocalAmenity
	Team        []LocalMember
	Galleries   []LocalGallery
	Contact     LocalContact
}

// Block returns the markdown block of section id.
func (p *Page) Block(id string) Block { return p.Blocks[id] }

// BlockHTML is a template helper returning the block body.
func (p *Page) BlockHTML(id string) template.HTML { return p.Blocks[id].HTML }

// SectionTitle returns the localized title of section id.
func (p *Page) SectionTitle(id string) string { return p.Blocks[id].Title }

// TotalSeats sums the capacity of every meeting room.
func (p *Page) TotalSeats() int {
	total := 0
	for _, r := range p.Rooms {
		total += r.Seats
	}
	return total
}

// LocalSection is a localized section heading.
type LocalSection struct {
	ID    string
	Title string
}

// LocalStat is a localized stat.
type LocalStat struct {
	ID     string
	Value  int
	Suffix string
	Label  string
}

// LocalOffice is a localized office size class.
type LocalOffice struct {
	ID          string
	Size        string
	Description string
	Features    []string
}

// LocalFeature is a localized feature.
type LocalFeature struct {
	ID          string
	Icon        string
	Title       string
	Description string
}

// LocalRoom is a localized meeting room.
type LocalRoom struct {
	ID          string
	Name        string
	Seats       int
	Description string
}

// LocalAmenity is a localized amenity.
type LocalAmenity struct {
	ID          string
	Title       string
	Description string
	Size        string
	Capacity    string
}

// LocalMember is a localized team member.
type LocalMember struct {
	ID    string
	Name  string
	Role  string
	Bio   string
	Email string
	Image string
}

// LocalGallery is a localized image group.
type LocalGallery struct {
	ID       string
	Category string
	Title    string
	Images   []LocalImage
}

// LocalImage is a localized gallery image.
type LocalImage struct {
	Src     string
	Caption string
}

// LocalContact is the localized contact block.
type LocalContact struct {
	Phones  []string
	Email   string
	Address string
	Street  string
	City    string
	Country string
	MapURL  string
	Geo     Geo
	Hours   []LocalHours
	Social  []Social
}

// LocalHours is a localized business hours line.
type LocalHours struct {
	Days string
	Time string
	Note string
}
