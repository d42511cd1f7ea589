package auth

import (
	"errors"
	"net/url"
	"path"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// GuardState is the outcome of evaluating one request.
type GuardState int

const (
	StatePublicPass GuardState = iota
	StateMissingToken
	StateInvalidToken
	StateRoleUnknown
	StateRoleUnauthorized
	StateAuthorized
)

func (s GuardState) String() string {
	switch s {
	case StatePublicPass:
		return "PUBLIC_PASS"
	case StateMissingToken:
		return "MISSING_TOKEN"
	case StateInvalidToken:
		return "INVALID_TOKEN"
	case StateRoleUnknown:
		return "ROLE_UNKNOWN"
	case StateRoleUnauthorized:
		return "ROLE_UNAUTHORIZED"
	case StateAuthorized:
		return "AUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

// Redirect reason codes exposed to the login page.
const (
	ReasonNoAuthToken      = "no_auth_token"
	ReasonSessionExpired   = "session_expired"
	ReasonUnauthorizedRole = "unauthorized_role"
	ReasonAccessDenied     = "access_denied"
)

// Decision is the result of Guard.Evaluate.
type Decision struct {
	State  GuardState
	Path   string
	Reason string
	Claims *Claims
	// Err holds the verification failure for INVALID_TOKEN. It is for server
	// logs only and never reaches the client.
	Err error
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.State == StatePublicPass || d.State == StateAuthorized
}

// Guard is the per-request authorization decision engine. It reads only the
// immutable policy and token manager, so one instance serves all requests
// concurrently.
type Guard struct {
	tokens *TokenManager
	policy *Policy
}

// NewGuard constructs a guard.
func NewGuard(tokens *TokenManager, policy *Policy) *Guard {
	return &Guard{tokens: tokens, policy: policy}
}

// Policy returns the permission table the guard enforces.
func (g *Guard) Policy() *Policy {
	return g.policy
}

// Evaluate decides what happens to a request for rawPath carrying token
// (empty when no session cookie was sent). It has no side effects.
func (g *Guard) Evaluate(rawPath, token string) Decision {
	p := NormalizePath(rawPath)

	if g.policy.Classify(p) != RouteProtected {
		return Decision{State: StatePublicPass, Path: p}
	}

	if token == "" {
		return Decision{State: StateMissingToken, Path: p, Reason: ReasonNoAuthToken}
	}

	claims, err := g.tokens.ParseToken(token)
	if err != nil {
		return Decision{State: StateInvalidToken, Path: p, Reason: ReasonSessionExpired, Err: err}
	}

	role := claims.User.Role
	if _, ok := g.policy.AllowedPrefixes(role); !ok {
		return Decision{State: StateRoleUnknown, Path: p, Reason: ReasonUnauthorizedRole, Claims: claims}
	}

	if !g.policy.Permits(role, p) {
		return Decision{State: StateRoleUnauthorized, Path: p, Reason: ReasonAccessDenied, Claims: claims}
	}

	return Decision{State: StateAuthorized, Path: p, Claims: claims}
}

// LoginRedirect builds the login URL for a denied decision. Only the reason
// code and the requested path are exposed.
func (g *Guard) LoginRedirect(d Decision) string {
	q := url.Values{}
	q.Set("error", d.Reason)
	q.Set("from", d.Path)
	return g.policy.LoginPath() + "?" + q.Encode()
}

// NormalizePath unescapes and cleans a request path so that prefix matching
// cannot be sidestepped with dot segments or encoded separators.
func NormalizePath(raw string) string {
	p := raw
	if unescaped, err := url.PathUnescape(raw); err == nil {
		p = unescaped
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// expired reports whether a verification failure was due to token age.
func expired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
