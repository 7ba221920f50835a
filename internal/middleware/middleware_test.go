package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"finitefield.org/bizcenter-web/internal/locale"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) }

func TestSessionRoundTrip(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	var seen string
	h := Session(SessionOptions{SigningKey: key})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		seen = s.ID
		if r.URL.Query().Get("flash") != "" {
			s.SetFlash("contact.sent")
		}
		_, _ = w.Write([]byte(s.PopFlash()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?flash=1", nil))
	first := seen
	require.NotEmpty(t, first)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// flash was set and popped in the same request; session id survives
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, first, seen)
	require.Empty(t, rec.Body.String())
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	var seen string
	h := Session(SessionOptions{SigningKey: key})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r).ID
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "eyJpZCI6ImZvcmdlZCJ9.AAAA"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEqual(t, "forged", seen)
	require.NotEmpty(t, seen)
}

func csrfStack() http.Handler {
	return Session(SessionOptions{SigningKey: []byte(strings.Repeat("s", 32))})(
		CSRF(false)(http.HandlerFunc(okHandler)),
	)
}

func TestCSRF(t *testing.T) {
	h := csrfStack()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var token string
	cookies := rec.Result().Cookies()
	for _, c := range cookies {
		if c.Name == csrfCookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	post := func(body url.Values, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/en/contact", strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusForbidden, post(url.Values{}, "").Code)
	require.Equal(t, http.StatusForbidden, post(url.Values{CSRFField: {"nope"}}, "").Code)
	require.Equal(t, http.StatusOK, post(url.Values{CSRFField: {token}}, "").Code)
	require.Equal(t, http.StatusOK, post(url.Values{}, token).Code)
}

func TestCSRFHTMXErrorIsJSON(t *testing.T) {
	h := csrfStack()
	req := httptest.NewRequest(http.MethodPost, "/en/contact", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	require.Contains(t, rec.Body.String(), `"error"`)
}

func TestLocalePath(t *testing.T) {
	res, err := locale.NewResolver([]string{"en", "ka"}, "en")
	require.NoError(t, err)
	var got string
	h := LocalePath(res, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r, "?")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ka/offices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ka", got)
	require.Equal(t, "ka", rec.Header().Get("Content-Language"))
	var persisted string
	for _, c := range rec.Result().Cookies() {
		if c.Name == locale.CookieName {
			persisted = c.Value
		}
	}
	require.Equal(t, "ka", persisted)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/offices?x=1", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/en/offices?x=1", rec.Header().Get("Location"))
}

func TestLangFallback(t *testing.T) {
	require.Equal(t, "en", Lang(httptest.NewRequest(http.MethodGet, "/", nil), "en"))
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0, 2) // no refill
	h := l.Middleware(func(r *http.Request) string { return r.Header.Get("X-Key") })(http.HandlerFunc(okHandler))

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/en/contact", nil)
		req.Header.Set("X-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, do("a"))
	require.Equal(t, http.StatusOK, do("a"))
	require.Equal(t, http.StatusTooManyRequests, do("a"))
	require.Equal(t, http.StatusOK, do("b"))
}

func TestRateLimiterSweepsPeriodically(t *testing.T) {
	l := NewRateLimiter(PerMinute(60), 1)
	l.idle = time.Minute
	l.sweepEvery = 5 * time.Minute
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	now = t0.Add(2 * time.Minute)
	require.True(t, l.Allow("b"))
	require.Len(t, l.clients, 2, "idle bucket survives until the next sweep")

	now = t0.Add(6 * time.Minute)
	require.True(t, l.Allow("c"))
	require.Len(t, l.clients, 1)
	require.Contains(t, l.clients, "c")
}

func TestPerMinute(t *testing.T) {
	require.Equal(t, rate.Inf, PerMinute(0))
	require.InDelta(t, 5.0/60.0, float64(PerMinute(5)), 1e-9)
}

func TestAssetsWithCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))

	h := AssetsWithCache(dir, "/assets", false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	dev := AssetsWithCache(dir, "/assets", true)
	rec = httptest.NewRecorder()
	dev.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestHTMXMarker(t *testing.T) {
	var is bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { is = IsHTMX(r.Context()) }))

	req := httptest.NewRequest(http.MethodGet, "/en/brochure", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, is)

	req.Header.Set("HX-Boosted", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, is)
}
