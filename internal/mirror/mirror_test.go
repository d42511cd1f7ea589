package mirror

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/access-gateway/internal/domain"
)

func sign(t *testing.T, user Identity, exp time.Time) string {
	t.Helper()
	claims := payload{User: user, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestMirrorLifecycle(t *testing.T) {
	m := New()
	if !m.Current().IsLoading {
		t.Fatal("new mirror should be loading")
	}
	m.Init()
	snap := m.Current()
	if snap.IsLoading || snap.Identity != nil {
		t.Fatalf("after Init: %+v", snap)
	}

	token := sign(t, Identity{ID: 3, Email: "t@example.com", Role: domain.RoleTechnician, Name: "Tomas"}, time.Now().Add(time.Hour))
	identity, err := m.SignIn(token)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if identity.Role != domain.RoleTechnician || identity.Email != "t@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}

	snap = m.Current()
	if snap.Role != domain.RoleTechnician || snap.LandingPath() != "/tecnico" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if nav := snap.Navigation(); len(nav) != 4 || nav[0].To != "/tecnico" {
		t.Fatalf("unexpected navigation %v", nav)
	}

	signedOut := false
	m.OnSignOut(func() { signedOut = true })
	m.SignOut()
	if m.Current().Identity != nil || !signedOut {
		t.Fatal("sign out did not clear session or run hook")
	}
	if nav := m.Current().Navigation(); nav[0].To != "/" {
		t.Fatalf("anonymous navigation = %v", nav)
	}
}

func TestSignInExpiredClearsSession(t *testing.T) {
	m := New()
	m.Init()
	if _, err := m.SignIn(sign(t, Identity{ID: 1, Role: domain.RoleAdmin}, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	_, err := m.SignIn(sign(t, Identity{ID: 1, Role: domain.RoleAdmin}, time.Now().Add(-time.Minute)))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if m.Current().Identity != nil {
		t.Fatal("expired token left a session behind")
	}
}

func TestDecodeFailures(t *testing.T) {
	now := time.Now()
	if _, err := Decode("not-a-token", now); err == nil {
		t.Fatal("expected malformed token to fail")
	}
	if _, err := Decode(sign(t, Identity{ID: 1}, now.Add(time.Hour)), now); !errors.Is(err, ErrNoRole) {
		t.Fatalf("expected ErrNoRole, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, payload{User: Identity{Role: domain.RoleAdmin}}).SignedString([]byte("k"))
	if _, err := Decode(noExp, now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected token without exp to be treated as expired, got %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := New()
	_, _ = m.SignIn(sign(t, Identity{ID: 1, Email: "a@example.com", Role: domain.RoleCustomer}, time.Now().Add(time.Hour)))
	snap := m.Current()
	snap.Identity.Email = "changed"
	if m.Current().Identity.Email != "a@example.com" {
		t.Fatal("snapshot aliases mirror state")
	}
}
