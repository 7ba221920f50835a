package main

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/bizcenter-web/internal/brochure"
	"finitefield.org/bizcenter-web/internal/config"
	"finitefield.org/bizcenter-web/internal/contact"
	"finitefield.org/bizcenter-web/internal/content"
	"finitefield.org/bizcenter-web/internal/handlers"
	"finitefield.org/bizcenter-web/internal/i18n"
	"finitefield.org/bizcenter-web/internal/locale"
	mw "finitefield.org/bizcenter-web/internal/middleware"
	"finitefield.org/bizcenter-web/internal/observability"
)

const brochureURL = "/brochure.pdf"

// server wires the site dependencies to HTTP routes.
type server struct {
	cfg      config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	resolver *locale.Resolver
	pages    *handlers.Builder
	contact  *contact.Service
	brochure *brochure.Store
	limiter  *mw.RateLimiter

	tmplMu    sync.Mutex
	tmplCache *template.Template
}

func newServer(cfg config.Config, logger *zap.Logger) (*server, error) {
	resolver, err := locale.NewResolver(cfg.Site.Locales, cfg.Site.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("locale resolver: %w", err)
	}
	bundle, err := i18n.Load(os.DirFS(cfg.Paths.Locales), ".", cfg.Site.DefaultLocale, cfg.Site.Locales)
	if err != nil {
		return nil, err
	}
	provider, err := content.NewProvider(os.DirFS(cfg.Paths.Content), ".", cfg.Site.DefaultLocale,
		content.WithCacheTTL(cfg.Site.ContentTTL))
	if err != nil {
		return nil, err
	}
	store := brochure.NewStore(cfg.Paths.Brochure, "")
	if info, err := store.Info(); err != nil {
		logger.Warn("brochure unavailable", zap.String("path", cfg.Paths.Brochure), zap.Error(err))
	} else {
		logger.Info("brochure loaded", zap.Int("pages", info.Pages), zap.String("size", info.HumanSize()))
	}

	s := &server{
		cfg:      cfg,
		logger:   logger,
		bundle:   bundle,
		resolver: resolver,
		pages: &handlers.Builder{
			Bundle:      bundle,
			Content:     provider,
			Resolver:    resolver,
			Brochure:    store,
			BrochureURL: brochureURL,
			BaseURL:     cfg.Site.BaseURL,
			Nav: handlers.NavSettings{
				HeaderOffset:      cfg.Nav.HeaderOffset,
				SpyOffset:         cfg.Nav.SpyOffset,
				ScrolledThreshold: cfg.Nav.ScrolledThreshold,
			},
		},
		contact:  contact.NewService(nil, logger),
		brochure: store,
		limiter:  mw.NewRateLimiter(mw.PerMinute(cfg.Contact.PerMinute), cfg.Contact.Burst),
	}
	if !cfg.Site.Dev {
		// Parse templates once in production
		tc, err := s.parseTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		s.tmplCache = tc
	}
	return s, nil
}

func (s *server) routes() chi.Router {
	secure := s.cfg.Site.IsProduction()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(observability.TraceMiddleware)
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/assets/*", mw.AssetsWithCache(filepath.Join(s.cfg.Paths.Public, "assets"), "/assets", s.cfg.Site.Dev))
	r.Get(brochureURL, s.brochure.ServeHTTP)
	r.Head(brochureURL, s.brochure.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(30 * time.Second))
		r.Use(mw.HTMX)
		r.Use(mw.Session(mw.SessionOptions{
			SigningKey: []byte(s.cfg.Session.SigningKey),
			Secure:     secure,
			Logger:     s.logger,
		}))
		r.Use(mw.CSRF(secure))
		r.Use(mw.VaryLocale)

		r.Get("/", s.handleRoot)
		r.Route("/{lang}", func(r chi.Router) {
			r.Use(mw.LocalePath(s.resolver, secure))
			r.Get("/", s.handleHome)
			r.Get("/brochure", s.handleBrochure)
			r.Get("/{section}", s.handleSection)
			r.With(s.limiter.Middleware(mw.ClientIP)).Post("/contact", s.handleContact)
			r.NotFound(s.handleNotFound)
		})
	})
	r.NotFound(s.handleNotFound)
	return r
}
