package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

// Config is loaded from YAML and overridden by environment variables.
// The session secret and database path must come from here, never from code.
type Config struct {
	Port          string   `yaml:"port"`
	DatabasePath  string   `yaml:"databasePath"`
	SessionSecret string   `yaml:"sessionSecret"`
	SessionTTL    string   `yaml:"sessionTTL"`
	RememberTTL   string   `yaml:"rememberTTL"`
	AdminEmails   []string `yaml:"adminEmails"`
	LogLevel      string   `yaml:"logLevel"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		path = defaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		cfg.AdminEmails = splitList(v)
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabasePath == "" {
		return errors.New("config: databasePath is required")
	}
	if cfg.SessionSecret == "" {
		return errors.New("config: sessionSecret is required (set SESSION_SECRET)")
	}
	return nil
}

// ParseSessionTTL parses the default session lifetime, 24h when unset.
func (c Config) ParseSessionTTL() (time.Duration, error) {
	return parseTTL(c.SessionTTL, 24*time.Hour)
}

// ParseRememberTTL parses the "remember me" lifetime, 30 days when unset.
func (c Config) ParseRememberTTL() (time.Duration, error) {
	return parseTTL(c.RememberTTL, 30*24*time.Hour)
}

// IsAdminEmail reports whether email is configured as an administrator.
func (c Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func parseTTL(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL duration %q: %w", s, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
