package auth

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/access-gateway/internal/config"
	"github.com/spec-kit/access-gateway/internal/domain"
)

func newTestGuard(t *testing.T) (*Guard, *TokenManager) {
	t.Helper()
	policy, err := NewPolicy(config.DefaultPolicy())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	tm := newTestTokens(t)
	return NewGuard(tm, policy), tm
}

func issue(t *testing.T, tm *TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tm.GenerateToken(Identity{ID: 5, Email: "u@example.com", Role: role, DisplayName: "U"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return token
}

var protectedPaths = []string{
	"/admin",
	"/admin/usuarios",
	"/usuario/cotizaciones",
	"/tecnico/visitasasignadas",
	"/dashboard",
	"/api/servicios",
}

var publicPaths = []string{"/", "/login", "/register", "/servicios", "/contacto", "/quienessomos"}

func TestEvaluateNoCookieRedirectsEveryProtectedPath(t *testing.T) {
	g, _ := newTestGuard(t)
	for _, p := range protectedPaths {
		d := g.Evaluate(p, "")
		if d.State != StateMissingToken || d.Reason != ReasonNoAuthToken {
			t.Errorf("%s: got %s/%s, want MISSING_TOKEN/no_auth_token", p, d.State, d.Reason)
		}
		if d.Allowed() {
			t.Errorf("%s: allowed without token", p)
		}
	}
}

func TestEvaluateForeignSecretIsSessionExpired(t *testing.T) {
	g, _ := newTestGuard(t)
	other, err := NewTokenManager("some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	for _, role := range domain.Roles() {
		token := issue(t, other, role)
		for _, p := range protectedPaths {
			d := g.Evaluate(p, token)
			if d.State != StateInvalidToken || d.Reason != ReasonSessionExpired {
				t.Errorf("%s/%s: got %s/%s", role, p, d.State, d.Reason)
			}
		}
	}
}

func TestEvaluateExpiredTokenDenied(t *testing.T) {
	g, tm := newTestGuard(t)
	past := time.Now().Add(-2 * time.Hour)
	token := issue(t, tm.WithClock(func() time.Time { return past }), domain.RoleAdmin)

	d := g.Evaluate("/admin", token)
	if d.State != StateInvalidToken || d.Reason != ReasonSessionExpired {
		t.Fatalf("got %s/%s, want INVALID_TOKEN/session_expired", d.State, d.Reason)
	}
	if !expired(d.Err) {
		t.Fatalf("expected expiry error, got %v", d.Err)
	}
}

func TestEvaluateMalformedToken(t *testing.T) {
	g, _ := newTestGuard(t)
	d := g.Evaluate("/admin", "garbage")
	if d.State != StateInvalidToken || d.Reason != ReasonSessionExpired {
		t.Fatalf("got %s/%s", d.State, d.Reason)
	}
}

func TestEvaluateMissingRoleIsInvalidToken(t *testing.T) {
	g, tm := newTestGuard(t)
	d := g.Evaluate("/admin", issue(t, tm, ""))
	if d.State != StateInvalidToken || d.Reason != ReasonSessionExpired {
		t.Fatalf("got %s/%s, want INVALID_TOKEN/session_expired", d.State, d.Reason)
	}
}

func TestEvaluateUnknownRoleAlwaysUnauthorizedRole(t *testing.T) {
	g, tm := newTestGuard(t)
	for _, role := range []domain.Role{domain.RoleUnknown, "superuser", "ADMIN"} {
		token := issue(t, tm, role)
		for _, p := range append(protectedPaths, "/desconocido", "/superuser") {
			d := g.Evaluate(p, token)
			if d.State != StateRoleUnknown || d.Reason != ReasonUnauthorizedRole {
				t.Errorf("%s/%s: got %s/%s", role, p, d.State, d.Reason)
			}
		}
	}
}

func TestEvaluateRolePrefixes(t *testing.T) {
	g, tm := newTestGuard(t)
	token := issue(t, tm, domain.RoleCustomer)

	d := g.Evaluate("/admin/usuarios", token)
	if d.State != StateRoleUnauthorized || d.Reason != ReasonAccessDenied {
		t.Fatalf("/admin/usuarios: got %s/%s, want ROLE_UNAUTHORIZED/access_denied", d.State, d.Reason)
	}

	d = g.Evaluate("/usuario/cotizaciones", token)
	if d.State != StateAuthorized || !d.Allowed() {
		t.Fatalf("/usuario/cotizaciones: got %s", d.State)
	}
	if d.Claims == nil || d.Claims.User.Role != domain.RoleCustomer {
		t.Fatalf("authorized decision missing claims: %+v", d.Claims)
	}
}

func TestEvaluatePublicPathsIgnoreToken(t *testing.T) {
	g, tm := newTestGuard(t)
	expiredToken := issue(t, tm.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }), domain.RoleAdmin)
	for _, p := range publicPaths {
		for _, token := range []string{"", "garbage", expiredToken, issue(t, tm, domain.RoleAdmin)} {
			if d := g.Evaluate(p, token); d.State != StatePublicPass {
				t.Errorf("%s: got %s, want PUBLIC_PASS", p, d.State)
			}
		}
	}
}

func TestEvaluateExemptPrefixes(t *testing.T) {
	g, _ := newTestGuard(t)
	for _, p := range []string{"/api/auth/login", "/api/auth/logout", "/_next/static/chunk.js", "/images/logo.png", "/favicon.ico", "/health/live"} {
		if d := g.Evaluate(p, ""); d.State != StatePublicPass {
			t.Errorf("%s: got %s, want PUBLIC_PASS", p, d.State)
		}
	}
}

func TestEvaluateDotSegmentsCannotEscapePrefix(t *testing.T) {
	g, tm := newTestGuard(t)
	token := issue(t, tm, domain.RoleCustomer)
	for _, p := range []string{"/usuario/../admin/usuarios", "/usuario/%2e%2e/admin", "/api/auth/../../admin"} {
		d := g.Evaluate(p, token)
		if d.Allowed() {
			t.Errorf("%s: allowed as %s (normalized %s)", p, d.State, d.Path)
		}
	}
}

func TestLoginRedirectExposesOnlyReasonAndPath(t *testing.T) {
	g, tm := newTestGuard(t)
	token := issue(t, tm, domain.RoleCustomer)
	d := g.Evaluate("/admin/usuarios", token)

	location := g.LoginRedirect(d)
	if !strings.HasPrefix(location, "/login?") {
		t.Fatalf("unexpected location %q", location)
	}
	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	q := u.Query()
	if q.Get("error") != ReasonAccessDenied || q.Get("from") != "/admin/usuarios" || len(q) != 2 {
		t.Fatalf("unexpected query %v", q)
	}
	if strings.Contains(location, token) {
		t.Fatal("redirect leaks the token")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/login/":            "/login",
		"//evil.example.com": "/evil.example.com",
		"/a/./b/../c":        "/a/c",
		"/usuario%2Fperfil":  "/usuario/perfil",
		"/bad%zzescape/path": "/bad%zzescape/path",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewPolicyRequiresEveryRole(t *testing.T) {
	cfg := config.DefaultPolicy()
	delete(cfg.Roles, "tecnico")
	if _, err := NewPolicy(cfg); err == nil {
		t.Fatal("expected missing role entry to be rejected")
	}

	cfg = config.DefaultPolicy()
	cfg.Roles["tecnico"] = nil
	if _, err := NewPolicy(cfg); err == nil {
		t.Fatal("expected empty role entry to be rejected")
	}
}

func TestNewPolicyRejectsUnknownRoles(t *testing.T) {
	for _, name := range []string{string(domain.RoleUnknown), "Admin", ""} {
		cfg := config.DefaultPolicy()
		cfg.Roles[name] = []string{"/"}
		if _, err := NewPolicy(cfg); err == nil {
			t.Errorf("role %q accepted in permission table", name)
		}
	}
}

func TestUnmappedRoleIDAlwaysDenied(t *testing.T) {
	guard, tm := newTestGuard(t)
	token := issue(t, tm, domain.RoleFromID(99))
	for _, p := range []string{"/admin/usuarios", "/usuario", "/tecnico/cotizaciones"} {
		d := guard.Evaluate(p, token)
		if d.State != StateRoleUnknown || d.Reason != ReasonUnauthorizedRole {
			t.Errorf("%s: state=%s reason=%s", p, d.State, d.Reason)
		}
	}
}

func TestPublicRoutesAreCleaned(t *testing.T) {
	cfg := config.DefaultPolicy()
	cfg.PublicRoutes = append(cfg.PublicRoutes, "/ayuda/", "/faq/./preguntas")
	policy, err := NewPolicy(cfg)
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	guard := NewGuard(newTestTokens(t), policy)
	for _, p := range []string{"/ayuda", "/ayuda/", "/faq/preguntas"} {
		if d := guard.Evaluate(p, ""); d.State != StatePublicPass {
			t.Errorf("%s: state=%s, want PUBLIC_PASS", p, d.State)
		}
	}
}

func TestClassifyIsExclusive(t *testing.T) {
	policy, err := NewPolicy(config.DefaultPolicy())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	if got := policy.Classify("/login"); got != RoutePublic {
		t.Errorf("/login = %s", got)
	}
	if got := policy.Classify("/api/auth/login"); got != RouteExempt {
		t.Errorf("/api/auth/login = %s", got)
	}
	if got := policy.Classify("/servicios/detalle"); got != RouteProtected {
		t.Errorf("/servicios/detalle = %s, public routes match exactly", got)
	}
}
