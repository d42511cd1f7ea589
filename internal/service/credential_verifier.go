package service

import (
	"context"
	"errors"

	"github.com/spec-kit/access-gateway/internal/auth"
	"github.com/spec-kit/access-gateway/internal/domain"
	"github.com/spec-kit/access-gateway/internal/repository"
)

// CredentialVerifier checks an email/password pair against the credential store.
type CredentialVerifier struct {
	users     repository.UserRepository
	dummyHash string
}

// NewCredentialVerifier builds a verifier. The dummy hash uses the same cost as
// real hashes so unknown emails take as long to reject as wrong passwords.
func NewCredentialVerifier(users repository.UserRepository, bcryptCost int) (*CredentialVerifier, error) {
	dummy, err := auth.HashPassword("not-a-real-password", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &CredentialVerifier{users: users, dummyHash: dummy}, nil
}

// VerifyPassword returns the stored user when the password matches. Unknown
// email, wrong password and inactive account all yield ErrInvalidCredentials.
func (v *CredentialVerifier) VerifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = auth.ComparePassword(v.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
