// Package brochure inspects the downloadable PDF brochure and builds the
// page links of its preview. Pages are never rendered server side.
package brochure

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrUnavailable is returned when the brochure file is missing or unreadable.
var ErrUnavailable = errors.New("brochure: unavailable")

func init() {
	// keep pdfcpu from creating a config directory under the user's home
	model.ConfigPath = "disable"
}

// Info describes the brochure file.
type Info struct {
	Path    string
	Name    string
	Title   string
	Pages   int
	Size    int64
	ModTime time.Time
}

// HumanSize formats Size for display ("2.4 MB").
func (i Info) HumanSize() string { return humanize.Bytes(uint64(i.Size)) }

// Inspect opens the PDF at path and reads its page count and title.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return inspect(f, path, st.Size(), st.ModTime())
}

func inspect(rs io.ReadSeeker, path string, size int64, mod time.Time) (Info, error) {
	ctx, err := api.ReadValidateAndOptimize(rs, model.NewDefaultConfiguration())
	if err != nil {
		return Info{}, fmt.Errorf("%w: pdfcpu read: %w", ErrUnavailable, err)
	}
	info := Info{
		Path:    path,
		Name:    filepath.Base(path),
		Title:   strings.TrimSpace(ctx.Title),
		Pages:   ctx.PageCount,
		Size:    size,
		ModTime: mod,
	}
	if info.Title == "" {
		info.Title = strings.TrimSuffix(info.Name, filepath.Ext(info.Name))
	}
	return info, nil
}

// PageLink is a deep link into the brochure.
type PageLink struct {
	Number int
	URL    string
}

// Viewer is the preview model: the inline URL, the download URL and the
// featured page links clipped to the real page count.
type Viewer struct {
	Title       string
	URL         string
	DownloadURL string
	Pages       int
	Size        string
	Updated     time.Time
	Featured    []PageLink
}

// NewViewer builds the preview for a brochure served at url. Featured pages
// outside [1, Pages] and duplicates are dropped.
func NewViewer(info Info, url string, featured []int) Viewer {
	v := Viewer{
		Title:       info.Title,
		URL:         url,
		DownloadURL: url + "?download=1",
		Pages:       info.Pages,
		Size:        info.HumanSize(),
		Updated:     info.ModTime,
	}
	seen := map[int]struct{}{}
	for _, p := range featured {
		if p < 1 || p > info.Pages {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		v.Featured = append(v.Featured, PageLink{Number: p, URL: PageURL(url, p)})
	}
	return v
}

// PageURL returns the link opening url at page n in browser PDF viewers.
func PageURL(url string, n int) string {
	return url + "#page=" + strconv.Itoa(n)
}

// Store inspects the brochure lazily and remembers the result until the
// file changes on disk.
type Store struct {
	path string
	name string

	mu   sync.Mutex
	info *Info
}

// NewStore returns a Store for the PDF at path, served under the download
// file name name.
func NewStore(path, name string) *Store {
	if name == "" {
		name = filepath.Base(path)
	}
	return &Store{path: path, name: name}
}

// Info returns the inspected brochure metadata.
func (s *Store) Info() (Info, error) {
	st, err := os.Stat(s.path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info != nil && s.info.ModTime.Equal(st.ModTime()) && s.info.Size == st.Size() {
		return *s.info, nil
	}
	info, err := Inspect(s.path)
	if err != nil {
		return Info{}, err
	}
	s.info = &info
	return info, nil
}

// ServeHTTP streams the PDF inline, or as an attachment when the request
// carries download=1.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}
	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, s.name))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, s.name, st.ModTime(), f)
}
