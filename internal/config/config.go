package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultEnvironment       = "local"
	defaultBaseURL           = "http://localhost:8080"
	defaultLocale            = "en"
	defaultLogLevel          = "info"
	defaultContactPerMinute  = 5
	defaultContactBurst      = 3
	defaultContentTTL        = 10 * time.Minute
	defaultHeaderOffset      = 80
	defaultSpyOffset         = 150
	defaultScrolledThreshold = 50
)

var defaultLocales = []string{"en", "ka"}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Site     SiteConfig
	Paths    PathConfig
	Session  SessionConfig
	Contact  ContactConfig
	Nav      NavConfig
	LogLevel string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// SiteConfig describes the public site.
type SiteConfig struct {
	Environment   string
	BaseURL       string
	Locales       []string
	DefaultLocale string
	Dev           bool
	// ContentTTL is how long localized content stays cached.
	ContentTTL time.Duration
}

// IsProduction reports whether cookies should be marked secure.
func (s SiteConfig) IsProduction() bool { return s.Environment == "prod" }

// PathConfig points at the on-disk resources served by the site.
type PathConfig struct {
	Templates string
	Public    string
	Locales   string
	Content   string
	Brochure  string
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	SigningKey string
}

// ContactConfig throttles enquiry submissions per client.
type ContactConfig struct {
	PerMinute int
	Burst     int
}

// NavConfig holds the pixel offsets handed to the navigation controller.
type NavConfig struct {
	HeaderOffset      float64
	SpyOffset         float64
	ScrolledThreshold float64
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and
// environment variables prefixed with BIZWEB_. PORT is honoured as a
// fallback for the listen port on hosted platforms.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "PORT", defaultPort)
	env := strings.ToLower(stringWithDefault(lookup, "BIZWEB_ENV", defaultEnvironment))
	locales := csvWithDefault(lookup, "BIZWEB_LOCALES")
	if len(locales) == 0 {
		locales = slices.Clone(defaultLocales)
	}
	for i, l := range locales {
		locales[i] = strings.ToLower(l)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:              stringWithDefault(lookup, "BIZWEB_PORT", port),
			ReadHeaderTimeout: durationWithDefault(lookup, "BIZWEB_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),
			ReadTimeout:       durationWithDefault(lookup, "BIZWEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "BIZWEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "BIZWEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout:   durationWithDefault(lookup, "BIZWEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Site: SiteConfig{
			Environment:   env,
			BaseURL:       strings.TrimRight(stringWithDefault(lookup, "BIZWEB_BASE_URL", defaultBaseURL), "/"),
			Locales:       locales,
			DefaultLocale: strings.ToLower(stringWithDefault(lookup, "BIZWEB_DEFAULT_LOCALE", defaultLocale)),
			Dev:           boolWithDefault(lookup, "BIZWEB_DEV", false),
			ContentTTL:    durationWithDefault(lookup, "BIZWEB_CONTENT_TTL", defaultContentTTL),
		},
		Paths: PathConfig{
			Templates: stringWithDefault(lookup, "BIZWEB_TEMPLATES_DIR", "templates"),
			Public:    stringWithDefault(lookup, "BIZWEB_PUBLIC_DIR", "public"),
			Locales:   stringWithDefault(lookup, "BIZWEB_LOCALES_DIR", "locales"),
			Content:   stringWithDefault(lookup, "BIZWEB_CONTENT_DIR", "content"),
			Brochure:  stringWithDefault(lookup, "BIZWEB_BROCHURE_PATH", filepath.Join("public", "assets", "brochure.pdf")),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "BIZWEB_SESSION_SIGNING_KEY", ""),
		},
		Contact: ContactConfig{
			PerMinute: intWithDefault(lookup, "BIZWEB_CONTACT_PER_MINUTE", defaultContactPerMinute),
			Burst:     intWithDefault(lookup, "BIZWEB_CONTACT_BURST", defaultContactBurst),
		},
		Nav: NavConfig{
			HeaderOffset:      floatWithDefault(lookup, "BIZWEB_NAV_HEADER_OFFSET", defaultHeaderOffset),
			SpyOffset:         floatWithDefault(lookup, "BIZWEB_NAV_SPY_OFFSET", defaultSpyOffset),
			ScrolledThreshold: floatWithDefault(lookup, "BIZWEB_NAV_SCROLLED_THRESHOLD", defaultScrolledThreshold),
		},
		LogLevel: strings.ToLower(stringWithDefault(lookup, "BIZWEB_LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if len(cfg.Site.Locales) == 0 {
		missing = append(missing, "Site.Locales")
	}
	if !slices.Contains(cfg.Site.Locales, cfg.Site.DefaultLocale) {
		missing = append(missing, "Site.DefaultLocale")
	}
	if !strings.HasPrefix(cfg.Site.BaseURL, "http://") && !strings.HasPrefix(cfg.Site.BaseURL, "https://") {
		missing = append(missing, "Site.BaseURL")
	}
	if cfg.Site.IsProduction() && len(cfg.Session.SigningKey) < 32 {
		missing = append(missing, "Session.SigningKey")
	}
	if cfg.Contact.PerMinute <= 0 {
		missing = append(missing, "Contact.PerMinute")
	}
	if cfg.Contact.Burst <= 0 {
		missing = append(missing, "Contact.Burst")
	}
	if cfg.Nav.HeaderOffset < 0 || cfg.Nav.SpyOffset < 0 || cfg.Nav.ScrolledThreshold < 0 {
		missing = append(missing, "Nav")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatWithDefault(lookup func(string) (string, bool), key string, fallback float64) float64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
