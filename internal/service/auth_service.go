package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/access-gateway/internal/auth"
	"github.com/spec-kit/access-gateway/internal/domain"
	"github.com/spec-kit/access-gateway/internal/events"
	"github.com/spec-kit/access-gateway/internal/ratelimit"
	"github.com/spec-kit/access-gateway/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by Register for an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrMissingFields is returned when required input is empty.
	ErrMissingFields = errors.New("email and password required")
)

// ThrottledError is returned by Login while the caller is locked out.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many failed logins, retry in %s", e.RetryAfter)
}

func (e *ThrottledError) Unwrap() error {
	return ratelimit.ErrLoginThrottled
}

// LoginInput carries a login attempt.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.Identity
}

// RegisterInput is the account record accepted at registration. New accounts
// always receive the customer role.
type RegisterInput struct {
	Names          string
	Surnames       string
	Email          string
	Identification string
	Password       string
	Address        string
	Phone          string
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	verifier   *CredentialVerifier
	tokens     *auth.TokenManager
	limiter    *ratelimit.LoginLimiter
	events     events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Limiter    *ratelimit.LoginLimiter
	Events     events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	verifier, err := NewCredentialVerifier(deps.UserRepo, deps.BcryptCost)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		verifier:   verifier,
		tokens:     deps.Tokens,
		limiter:    deps.Limiter,
		events:     deps.Events,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
	}, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	retry, err := s.limiter.Check(ctx, email, in.IP)
	switch {
	case errors.Is(err, ratelimit.ErrLoginThrottled):
		s.publish(ctx, events.EventLoginThrottled, events.Actor{Email: email, IP: in.IP})
		return nil, &ThrottledError{RetryAfter: retry}
	case err != nil:
		s.logger.Warn("login throttle check skipped", zap.Error(err))
	}

	user, err := s.verifier.VerifyPassword(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if rerr := s.limiter.RecordFailure(ctx, email, in.IP); rerr != nil {
				s.logger.Warn("login throttle record skipped", zap.Error(rerr))
			}
			s.publish(ctx, events.EventLoginFailed, events.Actor{Email: email, IP: in.IP})
		}
		return nil, err
	}

	identity := auth.IdentityFromUser(user)
	token, exp, err := s.tokens.GenerateToken(identity)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email, in.IP); err != nil {
		s.logger.Warn("login throttle reset skipped", zap.Error(err))
	}
	userID := user.ID
	s.publish(ctx, events.EventLoginSucceeded, events.Actor{UserID: &userID, Email: user.Email, Role: identity.Role, IP: in.IP})

	return &LoginResult{Token: token, ExpiresAt: exp, Identity: identity}, nil
}

// Logout records the event. Sessions are stateless, so there is nothing to
// revoke server side; the caller clears the cookie.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal, ip string) {
	actor := events.Actor{IP: ip}
	if principal != nil {
		id := principal.ID
		actor.UserID = &id
		actor.Email = principal.Email
		actor.Role = principal.Role
	}
	s.publish(ctx, events.EventLogout, actor)
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Names:          strings.TrimSpace(in.Names),
		Surnames:       strings.TrimSpace(in.Surnames),
		Email:          email,
		Identification: in.Identification,
		PasswordHash:   hash,
		Address:        in.Address,
		Phone:          in.Phone,
		RoleID:         domain.RoleIDCustomer,
		Status:         domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	userID := user.ID
	s.publish(ctx, events.EventUserRegistered, events.Actor{UserID: &userID, Email: user.Email, Role: domain.RoleCustomer})
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actor events.Actor) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.Event{Type: eventType, Actor: actor}); err != nil {
		s.logger.Warn("audit event handler failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
