package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  state_secret: "s3cr3t"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("Addr %q", c.Server.Addr)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("Driver %q", c.Storage.Driver)
	}
	if c.VerifyTTL() != 24*time.Hour {
		t.Fatalf("VerifyTTL %v", c.VerifyTTL())
	}
	if c.StateTTL() != 10*time.Minute {
		t.Fatalf("StateTTL %v", c.StateTTL())
	}
	if c.SessionTTL() != 720*time.Hour {
		t.Fatalf("SessionTTL %v", c.SessionTTL())
	}
	if c.Rate.EmailSignin.Limit != 5 || c.EmailSigninWindow() != time.Hour {
		t.Fatalf("rate %d/%v", c.Rate.EmailSignin.Limit, c.EmailSigninWindow())
	}
}

func TestLoadRecortaSlashFinalDeBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: "https://auth.example.com/v1/auth/"
auth:
  state_secret: "s3cr3t"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.BaseURL != "https://auth.example.com/v1/auth" {
		t.Fatalf("BaseURL %q", c.Server.BaseURL)
	}
}

func TestLoadSinStateSecretFalla(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("config sin state_secret debía fallar")
	}
}

func TestLoadProviderDuplicadoFalla(t *testing.T) {
	path := writeConfig(t, `
auth:
  state_secret: "s3cr3t"
providers:
  - id: email
    type: email
  - id: email
    type: email
`)
	if _, err := Load(path); err == nil {
		t.Fatal("provider duplicado debía fallar")
	}
}

func TestLoadOverridePorEnv(t *testing.T) {
	t.Setenv("STATE_SECRET", "desde-env")
	t.Setenv("SIGNON_BASE_URL", "https://otro.example.com/auth/")

	path := writeConfig(t, `
server:
  base_url: "https://auth.example.com/v1/auth"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Auth.StateSecret != "desde-env" {
		t.Fatalf("StateSecret %q", c.Auth.StateSecret)
	}
	if c.Server.BaseURL != "https://otro.example.com/auth" {
		t.Fatalf("BaseURL %q", c.Server.BaseURL)
	}
}
