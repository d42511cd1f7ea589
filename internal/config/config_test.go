package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("ACCESS_POLICY_FILE", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("Load() error = %v, want ErrMissingJWTSecret", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_POLICY_FILE", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_COOKIE_NAME", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_COOKIE_MAX_AGE_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.CookieName != "token" {
		t.Errorf("CookieName = %q, want token", cfg.Auth.CookieName)
	}
	if cfg.Auth.TokenTTL() != time.Hour {
		t.Errorf("TokenTTL() = %v, want 1h", cfg.Auth.TokenTTL())
	}
	if cfg.Auth.CookieMaxAgeSeconds != 604800 {
		t.Errorf("CookieMaxAgeSeconds = %d, want 604800", cfg.Auth.CookieMaxAgeSeconds)
	}
	if cfg.App.IsProduction() {
		t.Error("development env reported as production")
	}
	if len(cfg.Policy.Roles) != 3 {
		t.Errorf("default policy roles = %d, want 3", len(cfg.Policy.Roles))
	}
}

func TestLoadPolicy_File(t *testing.T) {
	content := `
login_path: /ingresar
exempt_prefixes:
  - /api/auth/
  - /static
roles:
  admin: [/admin, /reportes]
  tecnico: [/tecnico]
  usuario: [/usuario]
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	if policy.LoginPath != "/ingresar" {
		t.Errorf("LoginPath = %q, want /ingresar", policy.LoginPath)
	}
	if len(policy.ExemptPrefixes) != 2 || policy.ExemptPrefixes[1] != "/static" {
		t.Errorf("ExemptPrefixes = %v", policy.ExemptPrefixes)
	}
	if got := policy.Roles["admin"]; len(got) != 2 {
		t.Errorf("admin prefixes = %v, want 2 entries", got)
	}
	// public routes were not in the file and keep their defaults
	if len(policy.PublicRoutes) != 6 {
		t.Errorf("PublicRoutes = %v, want defaults", policy.PublicRoutes)
	}
}

func TestLoadPolicy_RejectsRelativePrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("roles:\n  admin: [admin]\n"), 0600); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}

	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected relative prefix to be rejected")
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing policy file")
	}
}
