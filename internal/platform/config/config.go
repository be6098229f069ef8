// Package config loads runtime settings from the environment, optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Remote store backends.
const (
	RemoteFirestore = "firestore"
	RemotePostgres  = "postgres"
	RemoteNone      = "none"
)

// Content providers.
const (
	ContentOllama = "ollama"
	ContentStatic = "static"
)

// Config holds every runtime setting.
type Config struct {
	Port                  string        `mapstructure:"port"`
	FirebaseProjectID     string        `mapstructure:"firebase_project_id"`
	GoogleCredentialsFile string        `mapstructure:"google_application_credentials"`
	RemoteStore           string        `mapstructure:"remote_store"`
	DatabaseURL           string        `mapstructure:"database_url"`
	LocalDBPath           string        `mapstructure:"local_db_path"`
	RedisAddr             string        `mapstructure:"redis_addr"`
	RedisPassword         string        `mapstructure:"redis_password"`
	RedisDB               int           `mapstructure:"redis_db"`
	PriceCacheTTL         time.Duration `mapstructure:"price_cache_ttl"`
	ContentProvider       string        `mapstructure:"content_provider"`
	OllamaModel           string        `mapstructure:"ollama_model"`
	OllamaTimeout         time.Duration `mapstructure:"ollama_timeout"`
	RateLimitPerMinute    int           `mapstructure:"rate_limit_per_minute"`
	LogFile               string        `mapstructure:"log_file"`
	LogMaxSizeMB          int           `mapstructure:"log_max_size_mb"`
	LogMaxBackups         int           `mapstructure:"log_max_backups"`
	LogMaxAgeDays         int           `mapstructure:"log_max_age_days"`
	MaxProfilesPerAccount int           `mapstructure:"max_profiles_per_account"`
	CORSAllowedOrigins    string        `mapstructure:"cors_allowed_origins"`
}

// Origins splits CORSAllowedOrigins on commas. An empty or "*" setting yields nil,
// meaning any origin.
func (c *Config) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(c.CORSAllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("firebase_project_id", "demo-test-project")
	v.SetDefault("google_application_credentials", "")
	v.SetDefault("remote_store", RemoteFirestore)
	v.SetDefault("database_url", "")
	v.SetDefault("local_db_path", "filif-local.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("price_cache_ttl", 5*time.Minute)
	v.SetDefault("content_provider", ContentStatic)
	v.SetDefault("ollama_model", "llama3.2")
	v.SetDefault("ollama_timeout", 30*time.Second)
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 100)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)
	v.SetDefault("max_profiles_per_account", 4)
	v.SetDefault("cors_allowed_origins", "*")
}

// Load reads envFiles (missing files are ignored; none means ".env"), then the process
// environment, and validates the result. Variables already set in the environment win
// over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.RemoteStore {
	case RemoteFirestore, RemoteNone:
	case RemotePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when REMOTE_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown REMOTE_STORE %q", c.RemoteStore)
	}
	switch c.ContentProvider {
	case ContentOllama, ContentStatic:
	default:
		return fmt.Errorf("unknown CONTENT_PROVIDER %q", c.ContentProvider)
	}
	if c.MaxProfilesPerAccount < 1 {
		return fmt.Errorf("MAX_PROFILES_PER_ACCOUNT must be at least 1, got %d", c.MaxProfilesPerAccount)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}
