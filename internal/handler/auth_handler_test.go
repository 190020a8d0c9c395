package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	authpkg "github.com/tyrell35/Prospex/internal/auth"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

type stubUsersRepository struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
}

func (s *stubUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findByEmail(ctx, email)
}

func (s *stubUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepository) Create(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
	return nil, repository.ErrEmailDuplicate
}

func (s *stubUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	return nil, nil
}

func (s *stubUsersRepository) Update(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ErrUserNotFound
}

func TestAuthHandler_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.User{ID: uuid.New(), Email: "operator@prospex.io", PasswordHash: string(hash), Role: "operator"}
	users := &stubUsersRepository{
		findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
			return user, nil
		},
	}
	manager := authpkg.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(service.NewAuthService(users, manager))
	e := echo.New()

	c, rec := postJSON(t, e, "/auth/login", `{"email":"operator@prospex.io","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	claims, err := manager.ParseToken(resp.Data.AccessToken)
	if err != nil {
		t.Fatalf("returned token does not parse: %v", err)
	}
	if claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	users := &stubUsersRepository{
		findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	h := NewAuthHandler(service.NewAuthService(users, authpkg.NewJWTManager("test-secret", time.Hour)))
	e := echo.New()

	c, rec := postJSON(t, e, "/auth/login", `{"email":"ghost@prospex.io","password":"nope"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService(&stubUsersRepository{}, authpkg.NewJWTManager("test-secret", time.Hour)))
	e := echo.New()

	c, rec := postJSON(t, e, "/auth/login", `{"email":"","password":""}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
