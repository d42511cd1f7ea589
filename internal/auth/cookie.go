package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the session token between requests. The cookie is
// HttpOnly so page script never sees it.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// NewSessionCookie builds cookie settings; Secure is expected on in production only.
func NewSessionCookie(name string, secure bool, maxAge time.Duration) SessionCookie {
	if name == "" {
		name = "token"
	}
	return SessionCookie{Name: name, Secure: secure, MaxAge: maxAge}
}

// Set places token on the response, replacing any previous session cookie.
func (s SessionCookie) Set(c *fiber.Ctx, token string) {
	c.Cookie(s.cookie(token, int(s.MaxAge/time.Second)))
}

// Clear overwrites the session cookie with an empty, already expired one.
// It is safe to call whether or not a session exists.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	cookie := s.cookie("", 0)
	// fiber only emits Max-Age when non-zero; an expiry in the past drops the cookie.
	cookie.Expires = time.Unix(0, 0)
	c.Cookie(cookie)
}

// Read returns the token sent by the client, or "" when absent.
func (s SessionCookie) Read(c *fiber.Ctx) string {
	return c.Cookies(s.Name)
}

func (s SessionCookie) cookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
