package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

// UsersHandler exposes administrator-only account management.
type UsersHandler struct {
	users *service.UsersService
}

// NewUsersHandler wires a new UsersHandler.
func NewUsersHandler(users *service.UsersService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /admin/users requests.
func (h *UsersHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Create(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		var validationErr service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, repository.ErrEmailDuplicate):
			return Error(c, http.StatusConflict, "email already registered")
		default:
			return Error(c, http.StatusInternalServerError, "failed to create user")
		}
	}

	return Success(c, http.StatusCreated, "user created", userResponse(user))
}

// List handles GET /admin/users requests.
func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list users")
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return Success(c, http.StatusOK, "ok", out)
}

// Update handles PATCH /admin/users/:id requests.
func (h *UsersHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Update(c.Request().Context(), id, req.Email, req.Password, req.Role)
	if err != nil {
		var validationErr service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, repository.ErrUserNotFound):
			return Error(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrEmailDuplicate):
			return Error(c, http.StatusConflict, "email already registered")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update user")
		}
	}

	return Success(c, http.StatusOK, "user updated", userResponse(user))
}

// Delete handles DELETE /admin/users/:id requests.
func (h *UsersHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid user id")
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Error(c, http.StatusNotFound, "user not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete user")
	}

	return Success(c, http.StatusOK, "user deleted", nil)
}

func userResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}
}
