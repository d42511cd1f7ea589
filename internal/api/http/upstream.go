package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"github.com/spec-kit/access-gateway/internal/auth"
	apperrors "github.com/spec-kit/access-gateway/pkg/util"
)

// NewUpstream forwards allowed requests to the dashboard renderer at target,
// using the path the guard evaluated so the upstream sees what was authorized.
func NewUpstream(target string) (fiber.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid UPSTREAM_URL %q: need http(s)://host", target)
	}
	base := strings.TrimRight(target, "/")

	return func(c *fiber.Ctx) error {
		dest := base + (&url.URL{Path: auth.GuardedPath(c)}).EscapedPath()
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			dest += "?" + string(q)
		}
		if err := proxy.Do(c, dest); err != nil {
			return apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "upstream unavailable", http.StatusBadGateway, nil)
		}
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}, nil
}
