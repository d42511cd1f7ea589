package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-gateway/internal/api/dto"
	"github.com/spec-kit/access-gateway/internal/auth"
	"github.com/spec-kit/access-gateway/internal/service"
	apperrors "github.com/spec-kit/access-gateway/pkg/util"
)

const invalidCredentialsMessage = "invalid email or password"

// AuthHandler exposes session issuance, invalidation and registration.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *auth.TokenManager
	cookie auth.SessionCookie
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenManager, cookie auth.SessionCookie) *AuthHandler {
	return &AuthHandler{auth: authService, tokens: tokens, cookie: cookie}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.IP(),
	})
	if err != nil {
		var throttled *service.ThrottledError
		switch {
		case errors.As(err, &throttled):
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(throttled.RetryAfter)))
			return apperrors.NewTooManyRequests("too many attempts")
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrMissingFields):
			return apperrors.NewUnauthorized(invalidCredentialsMessage)
		default:
			return apperrors.NewInternalError(err)
		}
	}

	h.cookie.Set(c, res.Token)
	return c.JSON(dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		ID:        res.Identity.ID,
		Email:     res.Identity.Email,
		Role:      string(res.Identity.Role),
		Name:      res.Identity.DisplayName,
	})
}

// Logout handles POST /api/auth/logout. It always clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var principal *auth.Principal
	if token := h.cookie.Read(c); token != "" {
		if claims, err := h.tokens.ParseToken(token); err == nil {
			principal = &auth.Principal{Identity: claims.User, TokenID: claims.ID}
		}
	}
	h.auth.Logout(c.UserContext(), principal, c.IP())

	h.cookie.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	_, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Names:          req.Names,
		Surnames:       req.Surnames,
		Email:          req.Email,
		Identification: req.Identification,
		Password:       req.Password,
		Address:        req.Address,
		Phone:          req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return apperrors.NewConflict("user already exists", nil)
		case errors.Is(err, service.ErrMissingFields):
			return apperrors.NewValidationError(err.Error(), nil)
		default:
			return apperrors.NewInternalError(err)
		}
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "user registered"})
}

// retryAfterSeconds rounds a lockout up to whole seconds, never below 1.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
