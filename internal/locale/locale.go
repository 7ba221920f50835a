package locale

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoLocales is returned when a resolver is built without any supported codes.
var ErrNoLocales = errors.New("locale: no supported locales")

// Resolution is the outcome of resolving a path segment into a locale.
// Redirect is empty when the segment already names a supported locale.
type Resolution struct {
	Locale   string
	Redirect string
}

// NeedsRedirect reports whether the caller must redirect (replacing history) to Redirect.
func (r Resolution) NeedsRedirect() bool { return r.Redirect != "" }

// Resolver maps URL path segments onto a fixed, closed set of locale codes.
type Resolver struct {
	supported []string
	index     map[string]struct{}
	def       string
}

// NewResolver builds a resolver over supported codes with def as the default.
func NewResolver(supported []string, def string) (*Resolver, error) {
	def = normalize(def)
	r := &Resolver{index: map[string]struct{}{}, def: def}
	for _, code := range supported {
		code = normalize(code)
		if code == "" {
			continue
		}
		if _, dup := r.index[code]; dup {
			continue
		}
		r.index[code] = struct{}{}
		r.supported = append(r.supported, code)
	}
	if len(r.supported) == 0 {
		return nil, ErrNoLocales
	}
	if _, ok := r.index[def]; !ok {
		return nil, fmt.Errorf("locale: default %q not in supported set %v", def, r.supported)
	}
	return r, nil
}

// Supported returns the supported codes in registration order.
func (r *Resolver) Supported() []string {
	out := make([]string, len(r.supported))
	copy(out, r.supported)
	return out
}

// Default returns the default locale code.
func (r *Resolver) Default() string { return r.def }

// IsSupported reports whether code is a member of the supported set.
func (r *Resolver) IsSupported(code string) bool {
	_, ok := r.index[code]
	return ok
}

// Resolve resolves a path segment candidate. An empty candidate means the
// segment is absent. Unsupported input always degrades to the default locale
// plus a redirect instruction.
func (r *Resolver) Resolve(candidate string) Resolution {
	if candidate != "" && r.IsSupported(candidate) {
		return Resolution{Locale: candidate}
	}
	return Resolution{Locale: r.def, Redirect: "/" + r.def}
}

// RedirectTarget builds the redirect location for a URL whose first path
// segment is not a supported locale. The unrecognized segment is replaced by
// the default locale; the remaining path, the query and the fragment are kept.
func (r *Resolver) RedirectTarget(u *url.URL) string {
	target := "/" + r.def
	if u == nil {
		return target
	}
	_, rest := splitFirstSegment(u.Path)
	if rest != "" && rest != "/" {
		target += rest
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		target += "#" + u.EscapedFragment()
	}
	return target
}

// SwitchPath returns the location for switching the current page to lang.
// A leading supported locale segment is replaced, otherwise lang is
// prepended. The fragment (section anchor) is preserved.
func (r *Resolver) SwitchPath(path, fragment, lang string) string {
	first, rest := splitFirstSegment(path)
	if !r.IsSupported(first) {
		rest = strings.TrimRight(path, "/")
		if rest != "" && !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
	}
	if rest == "/" {
		rest = ""
	}
	target := "/" + lang + rest
	if fragment = strings.TrimPrefix(fragment, "#"); fragment != "" {
		target += "#" + fragment
	}
	return target
}

// FirstSegment returns the first path segment of p ("" for the root path).
func FirstSegment(p string) string {
	first, _ := splitFirstSegment(p)
	return first
}

func splitFirstSegment(p string) (string, string) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", ""
	}
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i:]
	}
	return p, ""
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
