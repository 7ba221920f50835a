package content

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

const testSiteYAML = `
name: M25 Business Center
tagline:
  en: Where business meets comfort
  ka: სადაც ბიზნესი კომფორტს ხვდება
sections:
  - id: hero
  - id: about
    title: {en: About, ka: ჩვენ შესახებ}
  - id: offices
    title: {en: Private Offices}
  - id: contact
    title: Contact
menu:
  - id: about
    label_key: nav.about
    href: "#about"
  - id: services
    label_key: nav.services
    children:
      - id: offices
        label_key: nav.offices
        href: "#offices"
  - id: contact
    label_key: nav.contact
    href: "#contact"
rooms:
  - {id: napoleon, name: Napoleon Bonaparte, seats: 48}
  - {id: orwell, name: George Orwell, seats: 6}
offices:
  - id: compact
    size: 40–60 m²
    description: {en: Compact suites, ka: კომპაქტური}
    features: [{en: Kitchenette}, Veranda]
galleries:
  - id: plans
    category: plan
    images:
      - {src: /assets/plan_ground.jpg, caption: {en: Ground Floor}}
    pattern: /assets/render_p%03d.jpg
    caption: {en: Render %d}
    from: 97
    to: 99
contact:
  email: info@m25.ge
  address: {en: 25 Mtatsminda St, ka: მთაწმინდის 25}
  geo: {lat: 41.6938, lng: 44.8015}
brochure:
  featured: [9, 12]
`

func testFS() fstest.MapFS {
	fsys := fstest.MapFS{}
	fsys["content/site.yaml"] = &fstest.MapFile{Data: []byte(testSiteYAML)}
	fsys["content/sections/en/about.md"] = &fstest.MapFile{Data: []byte("---\nbadge: Since 2024\ntitle: About M25\n---\nM25 is a **business center** in Tbilisi.\n\n<script>alert(1)</script>\n\nSecond paragraph.\n")}
	fsys["content/sections/ka/about.md"] = &fstest.MapFile{Data: []byte("---\ntitle: M25-ის შესახებ\n---\nM25 არის ბიზნეს ცენტრი.\n")}
	fsys["content/sections/en/contact.md"] = &fstest.MapFile{Data: []byte("Write to [us](https://m25.ge).\n")}
	return fsys
}

func TestLoadSiteValidates(t *testing.T) {
	site, err := LoadSite(testFS(), "content")
	require.NoError(t, err)
	require.Equal(t, []string{"hero", "about", "offices", "contact"}, site.SectionIDs())
	require.True(t, site.HasSection("offices"))
	require.False(t, site.HasSection("services"))

	cases := map[string]string{
		"duplicate section": "name: x\nsections: [{id: a}, {id: a}]\n",
		"unknown anchor":    "name: x\nsections: [{id: a}]\nmenu: [{id: b, href: '#b'}]\n",
		"missing name":      "sections: [{id: a}]\n",
		"bad brochure page": "name: x\nsections: [{id: a}]\nbrochure: {featured: [0]}\n",
		"deep menu":         "name: x\nsections: [{id: a}]\nmenu: [{id: g, children: [{id: h, children: [{id: a, href: '#a'}]}]}]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"c/site.yaml": {Data: []byte(doc)}}
			_, err := LoadSite(fsys, "c")
			require.ErrorIs(t, err, ErrInvalidSite)
		})
	}

	_, err = LoadSite(fstest.MapFS{}, "c")
	require.Error(t, err)
}

func TestTextFallbacks(t *testing.T) {
	txt := Text{"en": "Hello", "ka": ""}
	require.Equal(t, "Hello", txt.In("ka", "en"))
	require.Equal(t, "Hello", txt.In("fr", "en"))
	require.Equal(t, "", Text{}.In("en", "en"))
	require.Equal(t, "Any", Text{anyLocale: "Any"}.In("ka", "en"))
}

func TestProviderLocalizes(t *testing.T) {
	p, err := NewProvider(testFS(), "content", "en")
	require.NoError(t, err)

	en, err := p.Page("en")
	require.NoError(t, err)
	about := en.Block("about")
	require.Equal(t, "Since 2024", about.Badge)
	require.Equal(t, "About M25", about.Title)
	require.Contains(t, string(about.HTML), "<strong>business center</strong>")
	require.NotContains(t, string(about.HTML), "<script>")
	require.Equal(t, "M25 is a business center in Tbilisi.", about.Excerpt)
	require.Equal(t, about.Excerpt, en.Description, "description falls back to the about excerpt")
	require.Equal(t, "Private Offices", en.SectionTitle("offices"))
	require.Contains(t, string(en.BlockHTML("contact")), `rel="nofollow`)
	require.Equal(t, 54, en.TotalSeats())
	require.Equal(t, []string{"Kitchenette", "Veranda"}, en.Offices[0].Features)

	gallery := en.Galleries[0]
	require.Len(t, gallery.Images, 4)
	require.Equal(t, "/assets/render_p098.jpg", gallery.Images[2].Src)
	require.Equal(t, "Render 98", gallery.Images[2].Caption)

	ka, err := p.Page("ka")
	require.NoError(t, err)
	require.Equal(t, "M25-ის შესახებ", ka.Block("about").Title)
	require.Equal(t, "სადაც ბიზნესი კომფორტს ხვდება", ka.Tagline)
	require.Equal(t, "მთაწმინდის 25", ka.Contact.Address)
	require.Equal(t, "Compact suites", en.Offices[0].Description)
	require.Equal(t, "კომპაქტური", ka.Offices[0].Description)
	require.Equal(t, "Private Offices", ka.SectionTitle("offices"), "title falls back to default locale")
	require.Contains(t, string(ka.BlockHTML("contact")), "Write to", "markdown falls back to default locale")
	require.Empty(t, ka.BlockHTML("hero"))
}

func TestProviderCachesPerTTL(t *testing.T) {
	fsys := testFS()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewProvider(fsys, "content", "en", WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	first, err := p.Page("en")
	require.NoError(t, err)

	fsys["content/sections/en/about.md"] = &fstest.MapFile{Data: []byte("Changed copy.\n")}
	second, err := p.Page("en")
	require.NoError(t, err)
	require.Same(t, first, second)

	now = now.Add(2 * time.Minute)
	third, err := p.Page("en")
	require.NoError(t, err)
	require.Equal(t, "Changed copy.", third.Block("about").Excerpt)
}

func TestExcerptTruncatesOnWordBoundary(t *testing.T) {
	long := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := Excerpt(long, 30)
	require.True(t, strings.HasSuffix(got, "…"))
	require.LessOrEqual(t, len([]rune(got)), 31)
	require.NotContains(t, got, "wor…")

	require.Equal(t, "Title body", Excerpt("<h2>Title</h2><div>body</div>", 0))
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body := splitFrontMatter("\ufeff---\ntitle: x\n---\n\nbody")
	require.Equal(t, "title: x", fm)
	require.Equal(t, "body", body)

	fm, body = splitFrontMatter("---\nunterminated")
	require.Empty(t, fm)
	require.Equal(t, "---\nunterminated", body)
}
