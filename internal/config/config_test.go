package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if len(cfg.Site.Locales) != 2 || cfg.Site.Locales[0] != "en" || cfg.Site.Locales[1] != "ka" {
		t.Errorf("unexpected locales %v", cfg.Site.Locales)
	}
	if cfg.Site.DefaultLocale != "en" {
		t.Errorf("expected default locale en, got %s", cfg.Site.DefaultLocale)
	}
	if cfg.Site.IsProduction() {
		t.Errorf("expected local environment")
	}
	if cfg.Nav.HeaderOffset != 80 || cfg.Nav.SpyOffset != 150 || cfg.Nav.ScrolledThreshold != 50 {
		t.Errorf("unexpected nav offsets %+v", cfg.Nav)
	}
	if cfg.Contact.PerMinute != defaultContactPerMinute {
		t.Errorf("unexpected contact rate %d", cfg.Contact.PerMinute)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected log level %s", cfg.LogLevel)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                     "9000",
		"BIZWEB_PORT":              "9090",
		"BIZWEB_READ_TIMEOUT":      "20s",
		"BIZWEB_LOCALES":           "KA, en ,",
		"BIZWEB_DEFAULT_LOCALE":    "ka",
		"BIZWEB_BASE_URL":          "https://m25.ge/",
		"BIZWEB_DEV":               "yes",
		"BIZWEB_NAV_HEADER_OFFSET": "64",
		"BIZWEB_CONTACT_BURST":     "not-a-number",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected BIZWEB_PORT to win, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if got := cfg.Site.Locales; len(got) != 2 || got[0] != "ka" || got[1] != "en" {
		t.Errorf("unexpected locales %v", got)
	}
	if cfg.Site.BaseURL != "https://m25.ge" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Site.BaseURL)
	}
	if !cfg.Site.Dev {
		t.Errorf("expected dev mode")
	}
	if cfg.Nav.HeaderOffset != 64 {
		t.Errorf("unexpected header offset %v", cfg.Nav.HeaderOffset)
	}
	if cfg.Contact.Burst != defaultContactBurst {
		t.Errorf("invalid int should fall back, got %d", cfg.Contact.Burst)
	}
}

func TestLoadFallsBackToPlatformPort(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "3000"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"BIZWEB_ENV":            "prod",
		"BIZWEB_DEFAULT_LOCALE": "fr",
		"BIZWEB_BASE_URL":       "m25.ge",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := vErr.Fields()
	want := map[string]bool{"Site.DefaultLocale": false, "Site.BaseURL": false, "Session.SigningKey": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected %s in %v", f, fields)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport BIZWEB_LOG_LEVEL=\"debug\"\nBIZWEB_PORT=7070\nBROKEN LINE\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"BIZWEB_PORT": "7171"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from .env, got %s", cfg.LogLevel)
	}
	if cfg.Server.Port != "7171" {
		t.Errorf("explicit map should override .env, got %s", cfg.Server.Port)
	}
}
