package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.RemoteStore != RemoteFirestore {
		t.Errorf("expected firestore remote, got %s", cfg.RemoteStore)
	}
	if cfg.MaxProfilesPerAccount != 4 {
		t.Errorf("expected 4 profiles per account, got %d", cfg.MaxProfilesPerAccount)
	}
	if cfg.PriceCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m price cache ttl, got %s", cfg.PriceCacheTTL)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REMOTE_STORE", "none")
	t.Setenv("OLLAMA_TIMEOUT", "45s")
	t.Setenv("MAX_PROFILES_PER_ACCOUNT", "6")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.RemoteStore != RemoteNone {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.OllamaTimeout != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.OllamaTimeout)
	}
	if cfg.MaxProfilesPerAccount != 6 {
		t.Errorf("expected 6, got %d", cfg.MaxProfilesPerAccount)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LOG_MAX_BACKUPS=9\nCONTENT_PROVIDER=ollama\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets process variables; register cleanup through t.Setenv first.
	t.Setenv("LOG_MAX_BACKUPS", "")
	t.Setenv("CONTENT_PROVIDER", "")
	_ = os.Unsetenv("LOG_MAX_BACKUPS")
	_ = os.Unsetenv("CONTENT_PROVIDER")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogMaxBackups != 9 || cfg.ContentProvider != ContentOllama {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown remote", map[string]string{"REMOTE_STORE": "mongo"}},
		{"postgres without url", map[string]string{"REMOTE_STORE": "postgres", "DATABASE_URL": ""}},
		{"unknown provider", map[string]string{"CONTENT_PROVIDER": "gpt"}},
		{"zero profiles", map[string]string{"MAX_PROFILES_PER_ACCOUNT": "0"}},
		{"negative rate", map[string]string{"RATE_LIMIT_PER_MINUTE": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestOrigins(t *testing.T) {
	cases := map[string][]string{
		"":                                     nil,
		"*":                                    nil,
		"https://a.example, *":                 nil,
		"https://a.example, https://b.example": {"https://a.example", "https://b.example"},
		" https://a.example ,,":                {"https://a.example"},
	}
	for raw, want := range cases {
		got := (&Config{CORSAllowedOrigins: raw}).Origins()
		if strings.Join(got, "|") != strings.Join(want, "|") || (got == nil) != (want == nil) {
			t.Errorf("%q: got %v, want %v", raw, got, want)
		}
	}
}
