package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"finitefield.org/bizcenter-web/internal/nav"
)

// ErrNotFound is returned when a content resource cannot be located.
var ErrNotFound = errors.New("content: not found")

// ErrInvalidSite wraps site.yaml validation failures.
var ErrInvalidSite = errors.New("content: invalid site")

// Text is a localized string keyed by locale code. A plain YAML scalar is
// accepted and applies to every locale.
type Text map[string]string

const anyLocale = "*"

// UnmarshalYAML accepts either a scalar or a locale mapping.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = Text{anyLocale: node.Value}
		return nil
	}
	var m map[string]string
	if err := node.Decode(&m); err != nil {
		return err
	}
	*t = Text(m)
	return nil
}

// In returns the value for lang, then for fallback, then the locale-agnostic value.
func (t Text) In(lang, fallback string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t[fallback]; ok && v != "" {
		return v
	}
	return t[anyLocale]
}

// Section is one anchor target of the landing page.
type Section struct {
	ID    string `yaml:"id"`
	Title Text   `yaml:"title"`
}

// Stat is a headline figure shown under the hero.
type Stat struct {
	ID     string `yaml:"id"`
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
	Label  Text   `yaml:"label"`
}

// Office is a private office size class.
type Office struct {
	ID          string `yaml:"id"`
	Size        string `yaml:"size"`
	Description Text   `yaml:"description"`
	Features    []Text `yaml:"features"`
}

// Feature is a titled benefit (co-working perks, virtual office services).
type Feature struct {
	ID          string `yaml:"id"`
	Icon        string `yaml:"icon"`
	Title       Text   `yaml:"title"`
	Description Text   `yaml:"description"`
}

// Room is a bookable meeting or conference room.
type Room struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Seats       int    `yaml:"seats"`
	Description Text   `yaml:"description"`
}

// Amenity is an on-site facility.
type Amenity struct {
	ID          string `yaml:"id"`
	Title       Text   `yaml:"title"`
	Description Text   `yaml:"description"`
	Size        string `yaml:"size"`
	Capacity    Text   `yaml:"capacity"`
}

// Member is a team member card.
type Member struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Role  Text   `yaml:"role"`
	Bio   Text   `yaml:"bio"`
	Email string `yaml:"email"`
	Image string `yaml:"image"`
}

// Gallery groups images of one category. Images may be listed or generated
// from a printf pattern over [From, To].
type Gallery struct {
	ID       string  `yaml:"id"`
	Category string  `yaml:"category"`
	Title    Text    `yaml:"title"`
	Images   []Image `yaml:"images"`
	Pattern  string  `yaml:"pattern"`
	Caption  Text    `yaml:"caption"`
	From     int     `yaml:"from"`
	To       int     `yaml:"to"`
}

// Image is a gallery entry.
type Image struct {
	Src     string `yaml:"src"`
	Caption Text   `yaml:"caption"`
}

// Expand returns the listed images followed by the generated ones.
func (g Gallery) Expand() []Image {
	out := make([]Image, 0, len(g.Images)+max(0, g.To-g.From+1))
	out = append(out, g.Images...)
	if g.Pattern == "" {
		return out
	}
	for i := g.From; i <= g.To; i++ {
		caption := Text{}
		for lang, v := range g.Caption {
			caption[lang] = fmt.Sprintf(v, i)
		}
		out = append(out, Image{Src: fmt.Sprintf(g.Pattern, i), Caption: caption})
	}
	return out
}

// Geo is a WGS84 location.
type Geo struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Contact lists the public contact channels.
type Contact struct {
	Phones  []string `yaml:"phones"`
	Email   string   `yaml:"email"`
	Address Text     `yaml:"address"`
	Street  string   `yaml:"street"`
	City    string   `yaml:"city"`
	Country string   `yaml:"country"`
	MapURL  string   `yaml:"map_url"`
	Geo     Geo      `yaml:"geo"`
	Hours   []Hours  `yaml:"hours"`
	Social  []Social `yaml:"social"`
}

// Hours is a line of the business hours table.
type Hours struct {
	Days Text   `yaml:"days"`
	Time string `yaml:"time"`
	Note Text   `yaml:"note"`
}

// Social is a link to a social profile.
type Social struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Brochure points at the downloadable PDF.
type Brochure struct {
	File     string `yaml:"file"`
	URL      string `yaml:"url"`
	Featured []int  `yaml:"featured"`
}

// Site is the parsed content/site.yaml.
type Site struct {
	Name        string    `yaml:"name"`
	Tagline     Text      `yaml:"tagline"`
	Description Text      `yaml:"description"`
	Logo        string    `yaml:"logo"`
	OGImage     string    `yaml:"og_image"`
	Sections    []Section `yaml:"sections"`
	Menu        nav.Menu  `yaml:"menu"`
	Stats       []Stat    `yaml:"stats"`
	Offices     []Office  `yaml:"offices"`
	Coworking   []Feature `yaml:"coworking"`
	Virtual     []Feature `yaml:"virtual"`
	Rooms       []Room    `yaml:"rooms"`
	Amenities   []Amenity `yaml:"amenities"`
	Team        []Member  `yaml:"team"`
	Galleries   []Gallery `yaml:"galleries"`
	Contact     Contact   `yaml:"contact"`
	Brochure    Brochure  `yaml:"brochure"`
}

// SectionIDs returns the section ids in page order.
func (s *Site) SectionIDs() []string {
	ids := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		ids = append(ids, sec.ID)
	}
	return ids
}

// HasSection reports whether id is a page section.
func (s *Site) HasSection(id string) bool {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

// LoadSite reads and validates <dir>/site.yaml from fsys.
func LoadSite(fsys fs.FS, dir string) (*Site, error) {
	raw, err := fs.ReadFile(fsys, path.Join(dir, "site.yaml"))
	if err != nil {
		return nil, fmt.Errorf("content: read site.yaml: %w", err)
	}
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("content: parse site.yaml: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks section id uniqueness, the menu shape and that every
// in-page menu anchor targets a known section.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSite)
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidSite)
	}
	seen := map[string]struct{}{}
	for _, sec := range s.Sections {
		id := strings.TrimSpace(sec.ID)
		if id == "" {
			return fmt.Errorf("%w: section without id", ErrInvalidSite)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidSite, id)
		}
		seen[id] = struct{}{}
	}
	if err := s.Menu.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}
	for _, id := range s.Menu.SectionIDs() {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: menu targets unknown section %q", ErrInvalidSite, id)
		}
	}
	for _, p := range s.Brochure.Featured {
		if p < 1 {
			return fmt.Errorf("%w: brochure page %d", ErrInvalidSite, p)
		}
	}
	return nil
}
