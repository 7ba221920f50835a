package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"

	"finitefield.org/bizcenter-web/internal/format"
	"finitefield.org/bizcenter-web/internal/observability"
)

func templateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["number"] = format.Number
	funcs["fmtdate"] = format.Date
	funcs["jsonld"] = func(s string) template.JS { return template.JS(s) }
	funcs["tel"] = telURL
	return funcs
}

// telURL builds a tel: link keeping only digits and a leading plus sign.
func telURL(phone string) template.URL {
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}

func (s *server) parseTemplates() (*template.Template, error) {
	dir := s.cfg.Paths.Templates
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}
	return template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
}

func (s *server) templates() (*template.Template, error) {
	if s.cfg.Site.Dev {
		// reparse on each request in dev mode
		return s.parseTemplates()
	}
	s.tmplMu.Lock()
	defer s.tmplMu.Unlock()
	if s.tmplCache == nil {
		tc, err := s.parseTemplates()
		if err != nil {
			return nil, err
		}
		s.tmplCache = tc
	}
	return s.tmplCache, nil
}

// render executes the named template into a buffer and writes it with status.
// Nothing is written to w when execution fails.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, err := s.templates()
	if err != nil {
		observability.FromContext(r.Context()).Error("template parse failed", zap.Error(err))
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		observability.FromContext(r.Context()).Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
