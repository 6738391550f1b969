package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ideationworks/ideation-api/internal/api/dto"
	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/service"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// UsersHandler exposes login, registration and profile endpoints.
type UsersHandler struct {
	auth       *service.AuthService
	principals *auth.PrincipalResolver
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, principals *auth.PrincipalResolver) *UsersHandler {
	return &UsersHandler{auth: authService, principals: principals}
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return auth.DenyError(err)
	}

	return c.Status(http.StatusOK).JSON(dto.LoginResponse{
		Token:     token.Value,
		ExpiresIn: int64(token.ExpiresIn.Seconds()),
	})
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	_, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewForbidden("Forbidden", err)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"status": "OK"})
}

// My handles GET /users/my and returns the caller's own record.
func (h *UsersHandler) My(c *fiber.Ctx) error {
	principal, err := h.principals.Resolve(c)
	if err != nil {
		return auth.DenyError(err)
	}
	user, err := h.auth.Profile(principal)
	if err != nil {
		return auth.DenyError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
