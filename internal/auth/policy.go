package auth

import (
	"fmt"
	"path"
	"strings"

	"github.com/spec-kit/access-gateway/internal/config"
	"github.com/spec-kit/access-gateway/internal/domain"
)

// RouteClass partitions request paths for the guard.
type RouteClass int

const (
	RouteProtected RouteClass = iota
	RoutePublic
	RouteExempt
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteExempt:
		return "exempt"
	default:
		return "protected"
	}
}

// Policy is the immutable route classification and permission table.
// Build it once at startup with NewPolicy and share it across requests.
type Policy struct {
	loginPath string
	public    map[string]struct{}
	exempt    []string
	roles     map[domain.Role][]string
}

// NewPolicy validates cfg and freezes it. Every enumerated role must have at
// least one allowed prefix and no other role may have an entry. Public routes
// are cleaned the same way request paths are.
func NewPolicy(cfg config.PolicyConfig) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Policy{
		loginPath: cfg.LoginPath,
		public:    make(map[string]struct{}, len(cfg.PublicRoutes)),
		exempt:    append([]string(nil), cfg.ExemptPrefixes...),
		roles:     make(map[domain.Role][]string, len(cfg.Roles)),
	}
	for _, route := range cfg.PublicRoutes {
		p.public[path.Clean(route)] = struct{}{}
	}
	for name, prefixes := range cfg.Roles {
		if !domain.Role(name).Valid() {
			return nil, fmt.Errorf("access policy: unknown role %q", name)
		}
		if len(prefixes) == 0 {
			continue
		}
		p.roles[domain.Role(name)] = append([]string(nil), prefixes...)
	}
	for _, role := range domain.Roles() {
		if len(p.roles[role]) == 0 {
			return nil, fmt.Errorf("access policy: role %s has no allowed prefixes", role)
		}
	}
	return p, nil
}

// LoginPath is where unauthenticated or unauthorized requests are redirected.
func (p *Policy) LoginPath() string {
	return p.loginPath
}

// Classify places path in exactly one route class. Public routes match
// exactly, exempt routes by prefix, and everything else is protected.
func (p *Policy) Classify(path string) RouteClass {
	if _, ok := p.public[path]; ok {
		return RoutePublic
	}
	for _, prefix := range p.exempt {
		if strings.HasPrefix(path, prefix) {
			return RouteExempt
		}
	}
	return RouteProtected
}

// AllowedPrefixes returns the prefixes granted to role and whether the role
// has an entry at all.
func (p *Policy) AllowedPrefixes(role domain.Role) ([]string, bool) {
	prefixes, ok := p.roles[role]
	return prefixes, ok
}

// Permits reports whether path starts with one of the prefixes granted to role.
func (p *Policy) Permits(role domain.Role, path string) bool {
	for _, prefix := range p.roles[role] {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
