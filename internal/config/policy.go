package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PolicyConfig is the route classification and role permission table.
type PolicyConfig struct {
	LoginPath      string              `yaml:"login_path"`
	PublicRoutes   []string            `yaml:"public_routes"`
	ExemptPrefixes []string            `yaml:"exempt_prefixes"`
	Roles          map[string][]string `yaml:"roles"`
}

// DefaultPolicy returns the built-in access policy used when no file is configured.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		LoginPath:    "/login",
		PublicRoutes: []string{"/", "/login", "/register", "/servicios", "/contacto", "/quienessomos"},
		ExemptPrefixes: []string{
			"/api/auth/",
			"/_next/static",
			"/_next/image",
			"/favicon.ico",
			"/images",
			"/assets",
			"/health/",
		},
		Roles: map[string][]string{
			"admin":   {"/admin"},
			"tecnico": {"/tecnico"},
			"usuario": {"/usuario"},
		},
	}
}

// LoadPolicy reads a YAML policy file. An empty path yields DefaultPolicy.
// Sections missing from the file keep their defaults.
func LoadPolicy(path string) (*PolicyConfig, error) {
	policy := DefaultPolicy()
	if path == "" {
		return &policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access policy: %w", err)
	}

	var file PolicyConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse access policy: %w", err)
	}

	if file.LoginPath != "" {
		policy.LoginPath = file.LoginPath
	}
	if file.PublicRoutes != nil {
		policy.PublicRoutes = file.PublicRoutes
	}
	if file.ExemptPrefixes != nil {
		policy.ExemptPrefixes = file.ExemptPrefixes
	}
	if file.Roles != nil {
		policy.Roles = file.Roles
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Validate checks that every configured path is absolute.
func (p PolicyConfig) Validate() error {
	if !strings.HasPrefix(p.LoginPath, "/") {
		return fmt.Errorf("login_path %q must start with /", p.LoginPath)
	}
	for _, route := range p.PublicRoutes {
		if !strings.HasPrefix(route, "/") {
			return fmt.Errorf("public route %q must start with /", route)
		}
	}
	for _, prefix := range p.ExemptPrefixes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("exempt prefix %q must start with /", prefix)
		}
	}
	for role, prefixes := range p.Roles {
		for _, prefix := range prefixes {
			if !strings.HasPrefix(prefix, "/") {
				return fmt.Errorf("role %s: prefix %q must start with /", role, prefix)
			}
		}
	}
	return nil
}
