// Package client talks to the gateway's auth API and keeps a session mirror
// in step with it.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-gateway/internal/api/dto"
	"github.com/spec-kit/access-gateway/internal/mirror"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the gateway.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway returned %d", e.Status)
	}
	return fmt.Sprintf("gateway returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is a thin HTTP client for /api/auth.
type Client struct {
	baseURL    string
	cookieName string
	timeout    time.Duration
	session    *mirror.Mirror

	mu    sync.Mutex
	token string
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCookieName overrides the session cookie name sent on logout.
func WithCookieName(name string) Option {
	return func(c *Client) { c.cookieName = name }
}

// New builds a client for the gateway at baseURL, initialising session.
func New(baseURL string, session *mirror.Mirror, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %q", baseURL)
	}
	if session == nil {
		session = mirror.New()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: "token",
		timeout:    defaultTimeout,
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	session.Init()
	return c, nil
}

// Session exposes the mirrored session.
func (c *Client) Session() *mirror.Mirror {
	return c.session
}

// Login posts credentials and mirrors the returned token.
func (c *Client) Login(email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.post("/api/auth/login", dto.LoginRequest{Email: email, Password: password}, "", &resp); err != nil {
		c.session.SignOut()
		return nil, err
	}
	if _, err := c.session.SignIn(resp.Token); err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return &resp, nil
}

// Logout calls the gateway and clears the mirror. The mirror is cleared even
// when the call fails.
func (c *Client) Logout() error {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.mu.Unlock()

	defer c.session.SignOut()
	return c.post("/api/auth/logout", nil, token, nil)
}

// Register creates a customer account.
func (c *Client) Register(req dto.RegisterRequest) error {
	return c.post("/api/auth/register", req, "", nil)
}

func (c *Client) post(path string, body any, token string, out any) error {
	agent := fiber.Post(c.baseURL + path).Timeout(c.timeout)
	if body != nil {
		agent.JSON(body)
	}
	if token != "" {
		agent.Cookie(c.cookieName, token)
	}

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post %s: %w", path, errors.Join(errs...))
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{Status: status}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
