package locale

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Store persists the last locale the user chose explicitly.
type Store interface {
	Get() (string, bool)
	Set(lang string)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	value string
}

func (s *MemoryStore) Get() (string, bool) { return s.value, s.value != "" }
func (s *MemoryStore) Set(lang string)     { s.value = lang }

// CookieName is the cookie holding the last chosen locale.
const CookieName = "hl"

// CookieStore adapts a request/response pair to the Store interface.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	Secure bool
	value  string
	loaded bool
}

// NewCookieStore returns a store reading from r and writing to w.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w}
}

func (s *CookieStore) Get() (string, bool) {
	if !s.loaded {
		s.loaded = true
		if c, err := s.r.Cookie(CookieName); err == nil {
			s.value = strings.ToLower(strings.TrimSpace(c.Value))
		}
	}
	return s.value, s.value != ""
}

func (s *CookieStore) Set(lang string) {
	if current, ok := s.Get(); ok && current == lang {
		return
	}
	s.value = lang
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    lang,
		Path:     "/",
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}

// Remember persists lang unless store already holds it. It reports whether
// a write happened.
func Remember(store Store, lang string) bool {
	if current, ok := store.Get(); ok && current == lang {
		return false
	}
	store.Set(lang)
	return true
}

// Negotiate returns the supported locale best matching an Accept-Language
// header, or "" when nothing matches. The result is only a suggestion shown
// in the language switcher; it never drives a redirect.
func (r *Resolver) Negotiate(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return ""
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(r.supported))
	for _, code := range r.supported {
		tags = append(tags, language.Make(code))
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(r.supported) {
		return ""
	}
	return r.supported[idx]
}

// RootTarget decides where the root path redirects: the persisted choice
// when it is still supported, otherwise the default.
func (r *Resolver) RootTarget(store Store) string {
	if store != nil {
		if lang, ok := store.Get(); ok && r.IsSupported(lang) {
			return "/" + lang
		}
	}
	return "/" + r.def
}
