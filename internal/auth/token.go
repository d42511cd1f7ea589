package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/access-gateway/internal/domain"
)

var (
	// ErrMissingSecret is returned when a TokenManager is built without a signing secret.
	ErrMissingSecret = errors.New("token signing secret is empty")
	// ErrMissingRole marks a correctly signed token that carries no role.
	ErrMissingRole = errors.New("token has no role")
)

// Identity is the subject embedded in a session token.
type Identity struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DisplayName string      `json:"name"`
}

// Claims describes the JWT payload.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating session tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. An empty secret is a configuration error.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the manager that reads time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// TTL is the lifetime embedded in every issued token.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// IdentityFromUser resolves the session identity of a stored user. This is the
// only place a numeric role id is translated into a role.
func IdentityFromUser(user *domain.User) Identity {
	return Identity{
		ID:          user.ID,
		Email:       user.Email,
		Role:        domain.RoleFromID(user.RoleID),
		DisplayName: user.DisplayName(),
	}
}

// GenerateToken builds and signs a JWT for the identity.
func (tm *TokenManager) GenerateToken(identity Identity) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature, expiry and role presence and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.User.Role == "" {
		return nil, ErrMissingRole
	}
	return claims, nil
}
