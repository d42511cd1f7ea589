package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/access-gateway/internal/domain"
)

func TestUserRepositoryWithoutPool(t *testing.T) {
	repo := NewUserRepository(nil)
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "a@example.com"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("FindByEmail: %v", err)
	}
	if _, err := repo.FindByID(ctx, 1); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("FindByID: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Email: "a@example.com"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Create: %v", err)
	}
}
