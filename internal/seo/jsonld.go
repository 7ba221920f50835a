package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema with the available languages.
func WebSite(name, url string, languages []string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if len(languages) > 0 {
		m["inLanguage"] = languages
	}
	return m
}

// Business carries the LocalBusiness fields.
type Business struct {
	Name        string
	Description string
	URL         string
	Image       string
	Email       string
	Phones      []string
	Street      string
	City        string
	Country     string
	Lat, Lng    float64
	MapURL      string
	SameAs      []string
}

// LocalBusiness returns a schema.org LocalBusiness with address and geo.
func LocalBusiness(b Business) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "LocalBusiness",
		"name":     b.Name,
	}
	if b.Description != "" {
		m["description"] = b.Description
	}
	if b.URL != "" {
		m["url"] = b.URL
	}
	if b.Image != "" {
		m["image"] = b.Image
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if len(b.Phones) > 0 {
		m["telephone"] = b.Phones[0]
	}
	if b.Street != "" || b.City != "" {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   b.Street,
			"addressLocality": b.City,
			"addressCountry":  b.Country,
		}
	}
	if b.Lat != 0 || b.Lng != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  b.Lat,
			"longitude": b.Lng,
		}
	}
	if b.MapURL != "" {
		m["hasMap"] = b.MapURL
	}
	if len(b.SameAs) > 0 {
		m["sameAs"] = b.SameAs
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		entry := map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
		}
		if it.Item != "" {
			entry["item"] = it.Item
		}
		el = append(el, entry)
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}
