package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
)

// Roles assignable to operator accounts.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// UsersService exposes administrator-facing account management.
type UsersService struct {
	repo repository.UsersRepository
}

// NewUsersService constructs a new UsersService.
func NewUsersService(repo repository.UsersRepository) *UsersService {
	return &UsersService{repo: repo}
}

// Create registers a new operator account with a hashed password.
func (s *UsersService) Create(ctx context.Context, email, password, role string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ValidationError{Message: "email and password are required"}
	}
	role = normalizeRole(role)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, string(hash), role)
}

// List returns all operator accounts.
func (s *UsersService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

// Update patches an account; nil fields are left untouched.
func (s *UsersService) Update(ctx context.Context, id uuid.UUID, email, password, role *string) (*entity.User, error) {
	var hashed *string
	if password != nil {
		if *password == "" {
			return nil, ValidationError{Message: "password must not be empty"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		value := string(hash)
		hashed = &value
	}
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		if normalized == "" {
			return nil, ValidationError{Message: "email must not be empty"}
		}
		email = &normalized
	}
	if role != nil {
		normalized := normalizeRole(*role)
		role = &normalized
	}
	return s.repo.Update(ctx, id, email, hashed, role)
}

// Delete removes an operator account.
func (s *UsersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleOperator
	}
}
