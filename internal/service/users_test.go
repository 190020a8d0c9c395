package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tyrell35/Prospex/internal/entity"
)

func TestUsersService_Create_HashesAndNormalizes(t *testing.T) {
	var gotEmail, gotHash, gotRole string
	users := &mockUsersRepository{
		create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
			gotEmail, gotHash, gotRole = email, passwordHash, role
			return &entity.User{ID: uuid.New(), Email: email, Role: role}, nil
		},
	}
	service := NewUsersService(users)

	if _, err := service.Create(context.Background(), "  Admin@Prospex.IO ", "secret123", "ADMIN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmail != "admin@prospex.io" {
		t.Fatalf("expected normalized email, got %q", gotEmail)
	}
	if gotRole != RoleAdmin {
		t.Fatalf("expected admin role, got %q", gotRole)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestUsersService_Create_RejectsMissingFields(t *testing.T) {
	service := NewUsersService(&mockUsersRepository{})
	_, err := service.Create(context.Background(), "", "secret", "operator")
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUsersService_Create_UnknownRoleDefaultsToOperator(t *testing.T) {
	users := &mockUsersRepository{
		create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
			if role != RoleOperator {
				t.Fatalf("expected operator fallback, got %q", role)
			}
			return &entity.User{}, nil
		},
	}
	service := NewUsersService(users)
	if _, err := service.Create(context.Background(), "a@b.io", "secret", "superuser"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUsersService_Update_HashesNewPassword(t *testing.T) {
	id := uuid.New()
	password := "newsecret"
	users := &mockUsersRepository{
		update: func(ctx context.Context, gotID uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
			if gotID != id {
				t.Fatalf("unexpected id: %s", gotID)
			}
			if passwordHash == nil {
				t.Fatalf("expected hashed password")
			}
			if err := bcrypt.CompareHashAndPassword([]byte(*passwordHash), []byte(password)); err != nil {
				t.Fatalf("hash does not verify: %v", err)
			}
			if email != nil || role != nil {
				t.Fatalf("expected untouched email/role")
			}
			return &entity.User{ID: id}, nil
		},
	}
	service := NewUsersService(users)
	if _, err := service.Update(context.Background(), id, nil, &password, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUsersService_Update_RejectsEmptyPassword(t *testing.T) {
	empty := ""
	service := NewUsersService(&mockUsersRepository{})
	_, err := service.Update(context.Background(), uuid.New(), nil, &empty, nil)
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
