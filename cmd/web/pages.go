package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/bizcenter-web/internal/contact"
	"finitefield.org/bizcenter-web/internal/handlers"
	"finitefield.org/bizcenter-web/internal/locale"
	mw "finitefield.org/bizcenter-web/internal/middleware"
	"finitefield.org/bizcenter-web/internal/observability"
)

const flashContactSent = "contact.sent"

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleRoot redirects to the remembered locale, else the default.
func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	target := s.resolver.RootTarget(locale.NewCookieStore(w, r))
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *server) lang(r *http.Request) string { return mw.Lang(r, s.resolver.Default()) }

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, "")
}

func (s *server) handleSection(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, chi.URLParam(r, "section"))
}

func (s *server) renderHome(w http.ResponseWriter, r *http.Request, section string) {
	data, err := s.pages.Home(s.lang(r), section)
	if handlers.IsNotFound(err) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data.SuggestLocale(s.resolver.Negotiate(r.Header.Get("Accept-Language")))
	sess := mw.GetSession(r)
	data.Contact.CSRF = mw.CSRFToken(r)
	data.Contact.Sent = sess.PopFlash() == flashContactSent || r.URL.Query().Get("sent") == "1"
	s.render(w, r, http.StatusOK, "base", data)
}

func (s *server) handleBrochure(w http.ResponseWriter, r *http.Request) {
	data, err := s.pages.BrochurePage(s.lang(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data.Contact.CSRF = mw.CSRFToken(r)
	if mw.IsHTMX(r.Context()) {
		s.render(w, r, http.StatusOK, "brochure_viewer", data)
		return
	}
	s.render(w, r, http.StatusOK, "base", data)
}

// handleContact validates an enquiry. htmx requests get the form fragment
// back (200 so htmx swaps it); plain posts re-render the page with 422 on
// errors or redirect after success.
func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := contact.FormFromValues(r.PostForm)
	res, err := s.contact.Submit(r.Context(), lang, mw.ClientIP(r), form)
	if err != nil && !errors.Is(err, contact.ErrInvalid) {
		s.serverError(w, r, err)
		return
	}
	htmx := mw.IsHTMX(r.Context())
	if err == nil && !htmx {
		mw.GetSession(r).SetFlash(flashContactSent)
		http.Redirect(w, r, "/"+lang+"?sent=1#contact", http.StatusSeeOther)
		return
	}

	data, perr := s.pages.Home(lang, "")
	if perr != nil {
		s.serverError(w, r, perr)
		return
	}
	data.Contact.CSRF = mw.CSRFToken(r)
	if err == nil {
		observability.FromContext(r.Context()).Info("contact enquiry accepted", zap.String("enquiry_id", res.Enquiry.ID))
		data.Contact.Sent = true
	} else {
		data.Contact.Form = form
		data.Contact.Errors = res.Errors
	}
	switch {
	case htmx:
		s.render(w, r, http.StatusOK, "contact_form", data)
	default:
		s.render(w, r, http.StatusUnprocessableEntity, "base", data)
	}
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	path := r.URL.Path
	if first := locale.FirstSegment(path); s.resolver.IsSupported(first) {
		lang = first
		path = strings.TrimPrefix(path, "/"+first)
	}
	data := s.pages.NotFound(lang, path)
	data.Contact.CSRF = mw.CSRFToken(r)
	s.render(w, r, http.StatusNotFound, "base", data)
}

func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
