package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Name: "Ada Lovelace", Email: "Ada@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Credentials{Name: "Imposter", Email: "ADA@example.com", Password: "secret123"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []struct {
		name  string
		creds Credentials
	}{
		{"short name", Credentials{Name: "A", Email: "a@example.com", Password: "secret123"}},
		{"bad email", Credentials{Name: "Ada", Email: "not-an-email", Password: "secret123"}},
		{"short password", Credentials{Name: "Ada", Email: "ada@example.com", Password: "abc"}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.creds); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestUpdateName(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateName(ctx, user.ID, "  Ada Byron  ")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Ada Byron" {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}
}
