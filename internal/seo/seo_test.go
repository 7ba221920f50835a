package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAlternatesAndCanonical(t *testing.T) {
	m := Build(Page{
		SiteName:    "M25",
		Title:       "Offices",
		Description: "Private offices",
		BaseURL:     "https://m25.ge/",
		Path:        "offices",
		Lang:        "ka",
		Locales:     []string{"en", "ka"},
		Default:     "en",
		Image:       "/assets/og.jpg",
	})
	require.Equal(t, "Offices | M25", m.Title)
	require.Equal(t, "https://m25.ge/ka/offices", m.Canonical)
	require.Equal(t, m.Canonical, m.OG.URL)
	require.Equal(t, "ka_GE", m.OG.Locale)
	require.Equal(t, "https://m25.ge/assets/og.jpg", m.OG.Image)
	require.Empty(t, m.Robots)
	require.Equal(t, []Alternate{
		{Href: "https://m25.ge/en/offices", Hreflang: "en"},
		{Href: "https://m25.ge/ka/offices", Hreflang: "ka"},
		{Href: "https://m25.ge/en/offices", Hreflang: "x-default"},
	}, m.Alternates)
}

func TestBuildHomeAndNoIndex(t *testing.T) {
	m := Build(Page{SiteName: "M25", Title: "M25", BaseURL: "https://m25.ge", Lang: "en", NoIndex: true, Image: "https://cdn.example/og.jpg"})
	require.Equal(t, "M25", m.Title)
	require.Equal(t, "https://m25.ge/en", m.Canonical)
	require.Equal(t, "noindex, nofollow", m.Robots)
	require.Equal(t, "https://cdn.example/og.jpg", m.Twitter.Image)
	require.Empty(t, m.Alternates)
}

func TestLocalBusinessJSON(t *testing.T) {
	raw := JSON(LocalBusiness(Business{
		Name:    "M25 Business Center",
		Phones:  []string{"+995 577 311 043"},
		Street:  "25 Mtatsminda St",
		City:    "Tbilisi",
		Country: "GE",
		Lat:     41.6938,
		Lng:     44.8015,
	}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Equal(t, "LocalBusiness", decoded["@type"])
	require.Equal(t, "+995 577 311 043", decoded["telephone"])
	geo := decoded["geo"].(map[string]any)
	require.InDelta(t, 41.6938, geo["latitude"], 1e-9)
	addr := decoded["address"].(map[string]any)
	require.Equal(t, "Tbilisi", addr["addressLocality"])
	require.NotContains(t, decoded, "email")
}

func TestBreadcrumbListPositions(t *testing.T) {
	bl := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "https://m25.ge/en"}, {Name: "Services"}, {Name: "Offices", Item: "https://m25.ge/en/offices"}})
	items := bl["itemListElement"].([]map[string]any)
	require.Len(t, items, 3)
	require.Equal(t, 3, items[2]["position"])
	require.NotContains(t, items[1], "item")
	require.Empty(t, JSON(func() {}))
}
