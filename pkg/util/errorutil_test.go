package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"domain", NewConflict("taken", nil), http.StatusConflict, "CONFLICT"},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewUnauthorized("nope")), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"fiber", fiber.NewError(http.StatusNotFound, "Cannot GET /x"), http.StatusNotFound, "NOT_FOUND"},
		{"fiber forbidden", fiber.NewError(http.StatusForbidden, "insufficient role"), http.StatusForbidden, "FORBIDDEN"},
		{"plain", errors.New("pq: relation missing"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Code != tt.wantCode {
				t.Fatalf("got %d/%s, want %d/%s", got.HTTPStatus, got.Code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	got := ToDomainError(errors.New("secret detail"))
	if got.Message != "internal server error" {
		t.Fatalf("message leaked: %q", got.Message)
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil error produced a DomainError")
	}
}
