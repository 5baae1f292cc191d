// Package config carga la configuración YAML del servicio.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr string `yaml:"addr"`
		// BaseURL es la base de las páginas propias y los callbacks
		// (ej: https://auth.example.com/v1/auth), sin slash final.
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		MaxConns int    `yaml:"max_conns"`
	} `yaml:"storage"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Email struct {
		TemplatesDir string `yaml:"templates_dir"`
		VerifyTTL    string `yaml:"verify_ttl"`
	} `yaml:"email"`

	Auth struct {
		// StateSecret firma el state JWT del flujo OAuth.
		StateSecret   string `yaml:"state_secret"`
		StateTTL      string `yaml:"state_ttl"`
		SessionTTL    string `yaml:"session_ttl"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`

		EmailSignin struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"email_signin"`

		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"rate"`

	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig describe un provider en el YAML.
type ProviderConfig struct {
	ID                    string   `yaml:"id"`
	Name                  string   `yaml:"name"`
	Type                  string   `yaml:"type"` // oauth | email
	AuthorizationEndpoint string   `yaml:"authorization_endpoint"`
	ClientID              string   `yaml:"client_id"`
	ClientSecret          string   `yaml:"client_secret"`
	Scopes                []string `yaml:"scopes"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080/v1/auth"
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Email.VerifyTTL == "" {
		c.Email.VerifyTTL = "24h"
	}
	if c.Auth.StateTTL == "" {
		c.Auth.StateTTL = "10m"
	}
	if c.Auth.SessionTTL == "" {
		c.Auth.SessionTTL = "720h" // 30d
	}
	if c.Rate.EmailSignin.Limit == 0 {
		c.Rate.EmailSignin.Limit = 5
	}
	if c.Rate.EmailSignin.Window == "" {
		c.Rate.EmailSignin.Window = "1h"
	}

	// overrides por env (secretos fuera del YAML)
	if v := os.Getenv("SIGNON_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SIGNON_BASE_URL"); v != "" {
		c.Server.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("STATE_SECRET"); v != "" {
		c.Auth.StateSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Rate.Redis.Addr = v
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Auth.StateSecret == "" {
		return fmt.Errorf("config: auth.state_secret is required (or STATE_SECRET env)")
	}
	seen := map[string]bool{}
	for _, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("config: provider without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("config: duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// VerifyTTL parsea email.verify_ttl.
func (c *Config) VerifyTTL() time.Duration { return mustDur(c.Email.VerifyTTL, 24*time.Hour) }

// StateTTL parsea auth.state_ttl.
func (c *Config) StateTTL() time.Duration { return mustDur(c.Auth.StateTTL, 10*time.Minute) }

// SessionTTL parsea auth.session_ttl.
func (c *Config) SessionTTL() time.Duration { return mustDur(c.Auth.SessionTTL, 720*time.Hour) }

// EmailSigninWindow parsea rate.email_signin.window.
func (c *Config) EmailSigninWindow() time.Duration {
	return mustDur(c.Rate.EmailSignin.Window, time.Hour)
}

func mustDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
