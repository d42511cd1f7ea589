package auth

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/access-gateway/internal/events"
	"github.com/spec-kit/access-gateway/internal/observability"
)

const (
	principalKey = "auth_principal"
	pathKey      = "auth_path"
)

// Identity headers set on requests forwarded upstream. Inbound values are
// always discarded.
const (
	HeaderUserID    = "X-Auth-User-Id"
	HeaderUserEmail = "X-Auth-User-Email"
	HeaderRole      = "X-Auth-Role"
)

// Principal represents the authenticated caller of an authorized request.
type Principal struct {
	Identity
	TokenID   string
	ExpiresAt time.Time
}

// GuardMiddleware runs the Guard on every request and turns denials into
// login redirects.
type GuardMiddleware struct {
	guard   *Guard
	cookie  SessionCookie
	logger  *zap.Logger
	metrics *observability.Metrics
	events  events.Dispatcher
}

// NewGuardMiddleware constructs middleware. metrics and dispatcher may be nil.
func NewGuardMiddleware(guard *Guard, cookie SessionCookie, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *GuardMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardMiddleware{guard: guard, cookie: cookie, logger: logger, metrics: metrics, events: dispatcher}
}

// Handle enforces the access policy.
func (m *GuardMiddleware) Handle(c *fiber.Ctx) error {
	c.Request().Header.Del(HeaderUserID)
	c.Request().Header.Del(HeaderUserEmail)
	c.Request().Header.Del(HeaderRole)

	decision := m.guard.Evaluate(c.Path(), m.cookie.Read(c))
	m.metrics.RecordDecision(decision.State.String())
	c.Locals(pathKey, decision.Path)

	if decision.Allowed() {
		if decision.Claims != nil {
			principal := principalFromClaims(decision.Claims)
			c.Locals(principalKey, principal)
			c.Request().Header.Set(HeaderUserID, strconv.FormatInt(principal.ID, 10))
			c.Request().Header.Set(HeaderUserEmail, principal.Email)
			c.Request().Header.Set(HeaderRole, string(principal.Role))
		}
		return c.Next()
	}

	m.logDenial(decision)
	m.publishDenial(c, decision)
	return c.Redirect(m.guard.LoginRedirect(decision), fiber.StatusTemporaryRedirect)
}

func (m *GuardMiddleware) logDenial(d Decision) {
	fields := []zap.Field{
		zap.String("state", d.State.String()),
		zap.String("path", d.Path),
	}
	switch d.State {
	case StateMissingToken:
		m.logger.Debug("guard: no session cookie", fields...)
	case StateInvalidToken:
		fields = append(fields, zap.Bool("expired", expired(d.Err)), zap.Error(d.Err))
		m.logger.Info("guard: session token rejected", fields...)
	default:
		if d.Claims != nil {
			fields = append(fields, zap.String("role", string(d.Claims.User.Role)))
		}
		m.logger.Warn("guard: access denied", fields...)
	}
}

func (m *GuardMiddleware) publishDenial(c *fiber.Ctx, d Decision) {
	if m.events == nil {
		return
	}
	actor := events.Actor{IP: c.IP()}
	if d.Claims != nil {
		id := d.Claims.User.ID
		actor.UserID = &id
		actor.Role = d.Claims.User.Role
	}
	_ = m.events.Publish(c.UserContext(), events.Event{
		Type:  events.EventAccessDenied,
		Actor: actor,
		Payload: events.AccessDeniedPayload{
			State:  d.State.String(),
			Reason: d.Reason,
			Path:   d.Path,
		},
	})
}

func principalFromClaims(claims *Claims) *Principal {
	p := &Principal{Identity: claims.User, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p
}

// PrincipalFromContext retrieves the authenticated caller set by the guard.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// GuardedPath returns the normalized path the guard evaluated.
func GuardedPath(c *fiber.Ctx) string {
	if p, ok := c.Locals(pathKey).(string); ok {
		return p
	}
	return NormalizePath(c.Path())
}
