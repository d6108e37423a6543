package usecase_test

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	pkgAuth "github.com/chowline/chowline/internal/pkg/auth"
	testhelpers "github.com/chowline/chowline/internal/test"
	"github.com/chowline/chowline/internal/usecase"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "Alice", "Alice@Example.com", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user stored under lowercased email: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "Bob", "bob@example.com", "secret"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "Bob", "bob@example.com", "secret"); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	cases := []struct {
		name, email, password string
	}{
		{"", "x@example.com", "pw"},
		{"x", "", "pw"},
		{"x", "x@example.com", ""},
	}
	for _, c := range cases {
		if _, _, err := uc.Register(context.Background(), c.name, c.email, c.password); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", c, err)
		}
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "Carol", "carol@example.com", "123456"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody@example.com", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}

	user, token, err := uc.Authenticate(ctx, "CAROL@example.com", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != fmt.Sprintf("token-%d", user.ID) {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected subject %d", id)
	}
}

func TestAuthUseCaseAddAddress(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, _, err := uc.Register(ctx, "Dave", "dave@example.com", "pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := uc.AddAddress(ctx, user.ID, model.Address{}); err != domainErrors.ErrValidation {
		t.Fatalf("expected ErrValidation for empty address, got %v", err)
	}
	if _, err := uc.AddAddress(ctx, 999, model.Address{Street: "1 Main St", City: "Springfield"}); err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	addr, err := uc.AddAddress(ctx, user.ID, model.Address{Street: "1 Main St", City: "Springfield", Location: model.Coordinate{Lat: 10, Lng: 10}})
	if err != nil {
		t.Fatalf("add address failed: %v", err)
	}
	if addr.ID == 0 || addr.UserID != user.ID {
		t.Fatalf("unexpected address %+v", addr)
	}
}
